package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *catalogRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, title, price, category, stock, created_at, updated_at
		FROM products
		ORDER BY title
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *catalogRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, title, price, category, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.Price, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetMany retrieves catalog entries for all given IDs in one batched read.
// Fails with a NotFound domain error naming the first missing ID so the
// caller can surface which product the client got wrong.
func (r *catalogRepository) GetMany(ctx context.Context, ids []string) (map[string]model.CatalogEntry, error) {
	if len(ids) == 0 {
		return map[string]model.CatalogEntry{}, nil
	}

	query := `
		SELECT id, title, price, stock
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query catalog entries")
		return nil, fmt.Errorf("failed to query catalog entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]model.CatalogEntry, len(ids))
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Price, &e.Stock); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan catalog entry row")
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries[e.ID] = e
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating catalog entry rows")
		return nil, fmt.Errorf("error iterating catalog entries: %w", err)
	}

	for _, id := range ids {
		if _, ok := entries[id]; !ok {
			r.logger.Warn().Str("product_id", id).Msg("product missing from catalog")
			return nil, model.NewNotFound("product", id)
		}
	}

	return entries, nil
}
