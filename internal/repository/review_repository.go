package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reviewRepository implements the ReviewRepository interface using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

// Insert persists a review together with its image refs.
func (r *reviewRepository) Insert(ctx context.Context, review *model.Review) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	reviewQuery := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, reviewQuery,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to insert review")
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if err = insertReviewImages(ctx, tx, review.ID, review.Images); err != nil {
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to insert review images")
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("review_id", review.ID.String()).
		Int("image_count", len(review.Images)).
		Msg("review inserted")

	return nil
}

// FindByID retrieves a review with its images, or nil when not found.
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var rev model.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	images, err := r.loadImages(ctx, id)
	if err != nil {
		return nil, err
	}
	rev.Images = images

	return &rev, nil
}

// FindByProduct retrieves a page of reviews for a product, newest first.
func (r *reviewRepository) FindByProduct(ctx context.Context, productID string, page, limit int) ([]model.Review, error) {
	offset := (page - 1) * limit

	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rev model.Review
		err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	for i := range reviews {
		images, err := r.loadImages(ctx, reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].Images = images
	}

	return reviews, nil
}

// ExistsForProductAndUser reports whether the user already reviewed the product.
func (r *reviewRepository) ExistsForProductAndUser(ctx context.Context, productID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE product_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, productID, userID).Scan(&exists); err != nil {
		r.logger.Error().Err(err).
			Str("product_id", productID).
			Str("user_id", userID).
			Msg("failed to check review existence")
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return exists, nil
}

// ReplaceImages swaps the review's image refs for the given set in one
// transaction.
func (r *reviewRepository) ReplaceImages(ctx context.Context, id uuid.UUID, images []model.MediaRef) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM review_images WHERE review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear review images: %w", err)
	}

	if err = insertReviewImages(ctx, tx, id, images); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `UPDATE reviews SET updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to touch review: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("review_id", id.String()).
		Int("image_count", len(images)).
		Msg("review images replaced")

	return nil
}

// Delete removes a review; its image rows go with it via cascade.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("review", id.String())
	}

	r.logger.Debug().Str("review_id", id.String()).Msg("review deleted")
	return nil
}

func (r *reviewRepository) loadImages(ctx context.Context, reviewID uuid.UUID) ([]model.MediaRef, error) {
	query := `
		SELECT id, url, format, width, height
		FROM review_images
		WHERE review_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to query review images: %w", err)
	}
	defer rows.Close()

	var refs []model.MediaRef
	for rows.Next() {
		var ref model.MediaRef
		if err := rows.Scan(&ref.ID, &ref.URL, &ref.Format, &ref.Width, &ref.Height); err != nil {
			return nil, fmt.Errorf("failed to scan review image: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review images: %w", err)
	}

	return refs, nil
}

func insertReviewImages(ctx context.Context, tx pgx.Tx, reviewID uuid.UUID, images []model.MediaRef) error {
	if len(images) == 0 {
		return nil
	}

	query := `
		INSERT INTO review_images (id, review_id, url, format, width, height)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, ref := range images {
		batch.Queue(query, ref.ID, reviewID, ref.URL, ref.Format, ref.Width, ref.Height)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(images); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert review image: %w", err)
		}
	}

	return nil
}
