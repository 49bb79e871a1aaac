package service

import (
	"context"

	"shopkart/internal/model"
	"shopkart/internal/pricing"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogValidator cross-checks client-submitted order items against the
// live catalogue: existence, stock sufficiency, and price equality within
// tolerance. It is a pure read; the authoritative stock check happens again
// at decrement time.
type CatalogValidator struct {
	catalog repository.CatalogRepository
	logger  zerolog.Logger
}

// NewCatalogValidator creates a new catalog snapshot validator.
func NewCatalogValidator(catalog repository.CatalogRepository, logger zerolog.Logger) *CatalogValidator {
	return &CatalogValidator{
		catalog: catalog,
		logger:  logger.With().Str("component", "catalog-validator").Logger(),
	}
}

// Validate fetches catalog entries for all items in one batched read and
// returns the items re-priced with catalog-confirmed prices plus the summed
// subtotal. The price check runs before any persistence, so a tampered
// client price can never reach storage.
func (v *CatalogValidator) Validate(ctx context.Context, items []model.OrderItemRequest) ([]model.OrderItem, float64, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	entries, err := v.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	priced := make([]model.OrderItem, len(items))
	subtotal := 0.0
	for i, item := range items {
		entry := entries[item.ProductID]

		if item.Quantity > entry.Stock {
			v.logger.Warn().
				Str("product_id", item.ProductID).
				Int("available", entry.Stock).
				Int("requested", item.Quantity).
				Msg("insufficient stock at validation")
			return nil, 0, model.NewInsufficientStock(item.ProductID, entry.Stock, item.Quantity)
		}

		if !pricing.WithinTolerance(item.Price, entry.Price) {
			v.logger.Warn().
				Str("product_id", item.ProductID).
				Float64("catalog_price", entry.Price).
				Float64("client_price", item.Price).
				Msg("client price rejected")
			return nil, 0, model.NewPriceMismatch(item.ProductID, entry.Price, item.Price)
		}

		// Catalog price always overrides the client-submitted one.
		priced[i] = model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: entry.Price,
		}
		subtotal += entry.Price * float64(item.Quantity)
	}

	return priced, pricing.RoundHalfUp(subtotal), nil
}
