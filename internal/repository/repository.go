package repository

import (
	"context"

	"shopkart/internal/model"

	"github.com/google/uuid"
)

// CatalogRepository defines read-only access to the product catalogue.
type CatalogRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetMany retrieves the catalog entries for all given IDs in one batched
	// read. Fails with a NotFound domain error naming the first missing ID.
	GetMany(ctx context.Context, ids []string) (map[string]model.CatalogEntry, error)
}

// InventoryRepository is the sole writer of product stock during order
// placement.
type InventoryRepository interface {
	// Decrement atomically reduces stock by quantity if and only if the
	// current stock is at least quantity. Returns an InsufficientStock
	// domain error (carrying the available quantity) when the condition
	// fails, or NotFound when the product does not exist.
	Decrement(ctx context.Context, productID string, quantity int) error

	// Increment restores stock, used only to compensate decrements made
	// earlier in an aborted order attempt.
	Increment(ctx context.Context, productID string, quantity int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Insert persists the order together with its items and attachments in
	// a single transaction.
	Insert(ctx context.Context, order *model.Order) error

	// FindByID retrieves an order with its items and attachments.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// FindByCustomer retrieves a page of a customer's orders, newest first.
	FindByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Order, error)

	// FindByIdempotencyKey retrieves the order previously committed with the
	// given idempotency key, or nil when none exists.
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)

	// Delete removes an order and its dependent rows. Used to unwind a
	// persisted order when a later commit step fails.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for review data access operations.
type ReviewRepository interface {
	// Insert persists a review together with its image refs.
	Insert(ctx context.Context, review *model.Review) error

	// FindByID retrieves a review with its images, or nil when not found.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// FindByProduct retrieves a page of reviews for a product, newest first.
	FindByProduct(ctx context.Context, productID string, page, limit int) ([]model.Review, error)

	// ExistsForProductAndUser reports whether the user already reviewed the
	// product.
	ExistsForProductAndUser(ctx context.Context, productID, userID string) (bool, error)

	// ReplaceImages swaps the review's image refs for the given set.
	ReplaceImages(ctx context.Context, id uuid.UUID, images []model.MediaRef) error

	// Delete removes a review and its image rows.
	Delete(ctx context.Context, id uuid.UUID) error
}
