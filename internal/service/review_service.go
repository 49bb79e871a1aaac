package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/media"
	"shopkart/internal/model"
	"shopkart/internal/repository"
	"shopkart/internal/saga"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService implements ReviewService. All image handling goes through
// the compensation saga so a failed write never strands uploaded media.
type reviewService struct {
	reviews   repository.ReviewRepository
	catalog   repository.CatalogRepository
	mediaSaga *saga.Saga
	logger    zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	catalog repository.CatalogRepository,
	mediaSaga *saga.Saga,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviews:   reviews,
		catalog:   catalog,
		mediaSaga: mediaSaga,
		logger:    logger.With().Str("service", "review").Logger(),
	}
}

// Create validates and persists a review. The conflict check runs before any
// upload so a rejected review has no side effects to unwind.
func (s *reviewService) Create(ctx context.Context, req *model.ReviewRequest, images []media.File) (*model.Review, error) {
	if err := validateReviewRequest(req); err != nil {
		return nil, err
	}

	product, err := s.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFound("product", req.ProductID)
	}

	exists, err := s.reviews.ExistsForProductAndUser(ctx, req.ProductID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, model.NewConflict(fmt.Sprintf("user %q already reviewed product %q", req.UserID, req.ProductID))
	}

	now := time.Now()
	review := &model.Review{
		ID:        uuid.New(),
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	refs, err := s.mediaSaga.Run(ctx, images, func(ctx context.Context, refs []model.MediaRef) error {
		review.Images = refs
		return s.reviews.Insert(ctx, review)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", req.ProductID).Msg("review creation failed")
		return nil, err
	}
	review.Images = refs

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", review.ProductID).
		Int("image_count", len(refs)).
		Msg("review created")

	return review, nil
}

// ReplaceImages swaps a review's images for a freshly uploaded set. New
// images are acquired first; the old set is deleted best-effort only after
// the swap commits, so a failed commit leaves the review untouched.
func (s *reviewService) ReplaceImages(ctx context.Context, id uuid.UUID, images []media.File) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, model.NewNotFound("review", id.String())
	}

	oldRefs := review.Images

	refs, err := s.mediaSaga.Run(ctx, images, func(ctx context.Context, refs []model.MediaRef) error {
		return s.reviews.ReplaceImages(ctx, id, refs)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("review_id", id.String()).Msg("image replacement failed")
		return nil, err
	}

	report := s.mediaSaga.Compensate(ctx, oldRefs)
	if len(report.Failed) > 0 {
		s.logger.Warn().
			Str("review_id", id.String()).
			Int("failed", len(report.Failed)).
			Msg("some replaced review images could not be deleted")
	}

	review.Images = refs
	review.UpdatedAt = time.Now()
	return review, nil
}

// Delete removes a review and unconditionally deletes all of its images.
// Image deletion failures are logged, not escalated: the record is already
// gone and orphaned media is the acceptable side of that trade.
func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return model.NewNotFound("review", id.String())
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}

	report := s.mediaSaga.Compensate(ctx, review.Images)
	if len(report.Failed) > 0 {
		s.logger.Warn().
			Str("review_id", id.String()).
			Int("failed", len(report.Failed)).
			Msg("some review images could not be deleted")
	}

	s.logger.Info().Str("review_id", id.String()).Msg("review deleted")
	return nil
}

// ListByProduct retrieves a page of reviews for a product with clamped paging.
func (s *reviewService) ListByProduct(ctx context.Context, productID string, page, limit int) ([]model.Review, error) {
	if productID == "" {
		return nil, model.NewInvalidInput("product ID is required")
	}

	page, limit = clampPaging(page, limit)

	reviews, err := s.reviews.FindByProduct(ctx, productID, page, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to list reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

func validateReviewRequest(req *model.ReviewRequest) error {
	if req == nil {
		return model.NewInvalidInput("review request is nil")
	}
	if req.ProductID == "" {
		return model.NewInvalidInput("product ID is required")
	}
	if req.UserID == "" {
		return model.NewInvalidInput("user ID is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return model.NewInvalidInput("rating must be between 1 and 5")
	}
	return nil
}
