package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalog repository.CatalogRepository
	logger  zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: catalog,
		logger:  logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *catalogService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.catalog.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.NewInvalidInput("product ID is required")
	}

	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		return nil, model.NewNotFound("product", id)
	}

	return product, nil
}
