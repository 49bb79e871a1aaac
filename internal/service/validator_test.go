package service

import (
	"context"
	"testing"

	"shopkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidator_Validate(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	entries := map[string]model.CatalogEntry{
		"P001": {ID: "P001", Title: "Chai", Price: 100.00, Stock: 5},
		"P002": {ID: "P002", Title: "Jaggery", Price: 49.50, Stock: 10},
	}

	t.Run("re-prices items with catalog prices", func(t *testing.T) {
		catalog := new(MockCatalogRepository)
		catalog.On("GetMany", ctx, []string{"P001", "P002"}).Return(entries, nil)
		v := NewCatalogValidator(catalog, logger)

		items := []model.OrderItemRequest{
			{ProductID: "P001", Quantity: 2, Price: 100.004}, // within tolerance
			{ProductID: "P002", Quantity: 1, Price: 49.50},
		}

		priced, subtotal, err := v.Validate(ctx, items)
		require.NoError(t, err)
		require.Len(t, priced, 2)
		assert.Equal(t, 100.00, priced[0].UnitPrice)
		assert.Equal(t, 49.50, priced[1].UnitPrice)
		assert.InDelta(t, 249.50, subtotal, 0.001)
	})

	t.Run("missing product surfaces NotFound", func(t *testing.T) {
		catalog := new(MockCatalogRepository)
		catalog.On("GetMany", ctx, []string{"NOPE"}).Return(nil, model.NewNotFound("product", "NOPE"))
		v := NewCatalogValidator(catalog, logger)

		_, _, err := v.Validate(ctx, []model.OrderItemRequest{{ProductID: "NOPE", Quantity: 1, Price: 10}})
		require.Error(t, err)
		assert.True(t, model.IsCode(err, model.ErrCodeNotFound))
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		catalog := new(MockCatalogRepository)
		catalog.On("GetMany", ctx, []string{"P001"}).Return(entries, nil)
		v := NewCatalogValidator(catalog, logger)

		_, _, err := v.Validate(ctx, []model.OrderItemRequest{{ProductID: "P001", Quantity: 6, Price: 100.00}})
		require.Error(t, err)
		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeInsufficientStock, de.Code)
		assert.Equal(t, "P001", de.ProductID)
		assert.Equal(t, 5.0, de.Received) // available
		assert.Equal(t, 6.0, de.Expected) // requested
	})

	t.Run("price beyond tolerance rejected", func(t *testing.T) {
		catalog := new(MockCatalogRepository)
		catalog.On("GetMany", ctx, []string{"P001"}).Return(entries, nil)
		v := NewCatalogValidator(catalog, logger)

		_, _, err := v.Validate(ctx, []model.OrderItemRequest{{ProductID: "P001", Quantity: 1, Price: 99.98}})
		require.Error(t, err)
		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodePriceMismatch, de.Code)
		assert.Equal(t, 100.00, de.Expected)
		assert.Equal(t, 99.98, de.Received)
	})
}
