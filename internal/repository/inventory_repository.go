package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using
// PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// Decrement atomically reduces stock by quantity if and only if the current
// stock is at least quantity. The condition lives inside the single UPDATE
// statement; two concurrent callers can never jointly drive stock negative.
func (r *inventoryRepository) Decrement(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := r.pool.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// The conditional update missed: either the product is gone or
		// stock dropped below quantity since validation. Read the current
		// value only to report it; the authoritative check already failed.
		var available int
		err := r.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
		if err == pgx.ErrNoRows {
			return model.NewNotFound("product", productID)
		}
		if err != nil {
			r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to read stock after failed decrement")
			return fmt.Errorf("failed to read stock: %w", err)
		}

		r.logger.Warn().
			Str("product_id", productID).
			Int("available", available).
			Int("requested", quantity).
			Msg("stock decrement refused")
		return model.NewInsufficientStock(productID, available, quantity)
	}

	r.logger.Debug().
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("stock decremented")

	return nil
}

// Increment restores stock for a product. Used only to compensate decrements
// made earlier in an aborted order attempt.
func (r *inventoryRepository) Increment(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to increment stock")
		return fmt.Errorf("failed to increment stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Error().
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("product disappeared before stock restore")
		return model.NewNotFound("product", productID)
	}

	r.logger.Debug().
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("stock restored")

	return nil
}
