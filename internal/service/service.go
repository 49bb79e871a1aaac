package service

import (
	"context"

	"shopkart/internal/media"
	"shopkart/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// OrderService defines operations for order placement and retrieval.
type OrderService interface {
	// PlaceOrder validates, prices, persists and commits an order,
	// decrementing stock atomically per item. Attachments, when present,
	// are uploaded first and compensated if any later step fails.
	PlaceOrder(ctx context.Context, req *model.OrderRequest, attachments []media.File) (*model.Order, error)

	// GetByID retrieves an order with its items, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByCustomer retrieves a page of a customer's orders. Page and limit
	// are clamped to valid ranges rather than rejected.
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Order, error)
}

// ReviewService defines operations for product reviews and their images.
type ReviewService interface {
	// Create validates and persists a review, uploading its images through
	// the compensation saga.
	Create(ctx context.Context, req *model.ReviewRequest, images []media.File) (*model.Review, error)

	// ReplaceImages swaps a review's images for a freshly uploaded set. Old
	// images are deleted best-effort after the swap commits.
	ReplaceImages(ctx context.Context, id uuid.UUID, images []media.File) (*model.Review, error)

	// Delete removes a review and deletes all of its images from the media
	// store.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByProduct retrieves a page of reviews for a product with clamped
	// pagination.
	ListByProduct(ctx context.Context, productID string, page, limit int) ([]model.Review, error)
}

// Pagination bounds for list endpoints.
const (
	maxPageLimit     = 50
	defaultPageLimit = 10
)

// clampPaging forces page >= 1 and limit into [1, maxPageLimit]. Out-of-range
// values are clamped rather than rejected.
func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
