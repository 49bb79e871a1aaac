package integration

import (
	"context"
	"testing"
	"time"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(customerID string) *model.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	orderID := uuid.New()
	return &model.Order{
		ID:         orderID,
		CustomerID: customerID,
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 2, UnitPrice: 100.00},
			{ID: uuid.New(), OrderID: orderID, ProductID: "P002", Quantity: 1, UnitPrice: 49.50},
		},
		ShippingAddress: model.ShippingAddress{
			Line1:      "12 Chandni Chowk",
			City:       "Delhi",
			Region:     "Delhi",
			PostalCode: "110006",
		},
		Payment: model.Payment{
			Method:        "card",
			TransactionID: "txn-1",
			Amount:        294.41,
			Currency:      "INR",
		},
		Status:       model.OrderStatusProcessing,
		Paid:         true,
		ShippingCost: 0,
		TaxAmount:    44.91,
		TotalPrice:   294.41,
		Attachments: []model.MediaRef{
			{ID: "media/receipt-1.png", URL: "https://bucket.s3.test/media/receipt-1.png", Format: "png", Width: 800, Height: 600},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Insert then FindByID roundtrips", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		order := testOrder("cust-1")
		require.NoError(t, repo.Insert(ctx, order))

		got, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, order.CustomerID, got.CustomerID)
		assert.Equal(t, order.Status, got.Status)
		assert.Equal(t, order.TotalPrice, got.TotalPrice)
		assert.Equal(t, order.Payment.Amount, got.Payment.Amount)
		assert.Equal(t, order.ShippingAddress.Region, got.ShippingAddress.Region)

		// Items come back in submission order.
		require.Len(t, got.Items, 2)
		assert.Equal(t, "P001", got.Items[0].ProductID)
		assert.Equal(t, "P002", got.Items[1].ProductID)
		assert.Equal(t, 100.00, got.Items[0].UnitPrice)

		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "media/receipt-1.png", got.Attachments[0].ID)

		// Total invariant holds on the persisted record.
		recomputed := 0.0
		for _, item := range got.Items {
			recomputed += item.UnitPrice * float64(item.Quantity)
		}
		recomputed += got.ShippingCost + got.TaxAmount
		assert.InDelta(t, got.TotalPrice, recomputed, 0.01)
	})

	t.Run("FindByID of unknown order returns nil", func(t *testing.T) {
		got, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("FindByCustomer pages newest first", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		for i := 0; i < 3; i++ {
			order := testOrder("cust-2")
			order.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
			order.UpdatedAt = order.CreatedAt
			require.NoError(t, repo.Insert(ctx, order))
		}

		orders, err := repo.FindByCustomer(ctx, "cust-2", 1, 2)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))

		second, err := repo.FindByCustomer(ctx, "cust-2", 2, 2)
		require.NoError(t, err)
		assert.Len(t, second, 1)
	})

	t.Run("FindByIdempotencyKey returns prior order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		order := testOrder("cust-3")
		order.IdempotencyKey = "retry-abc"
		require.NoError(t, repo.Insert(ctx, order))

		got, err := repo.FindByIdempotencyKey(ctx, "retry-abc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.ID, got.ID)

		missing, err := repo.FindByIdempotencyKey(ctx, "never-seen")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate idempotency key is rejected by the store", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		first := testOrder("cust-4")
		first.IdempotencyKey = "dup-key"
		require.NoError(t, repo.Insert(ctx, first))

		second := testOrder("cust-4")
		second.IdempotencyKey = "dup-key"
		assert.Error(t, repo.Insert(ctx, second))
	})

	t.Run("orders without keys do not collide", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// Empty keys are stored as NULL, so the unique index ignores them.
		require.NoError(t, repo.Insert(ctx, testOrder("cust-5")))
		require.NoError(t, repo.Insert(ctx, testOrder("cust-5")))
	})

	t.Run("Delete removes order and dependants", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		order := testOrder("cust-6")
		require.NoError(t, repo.Insert(ctx, order))
		require.NoError(t, repo.Delete(ctx, order.ID))

		got, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		var itemCount int
		err = testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&itemCount)
		require.NoError(t, err)
		assert.Equal(t, 0, itemCount)
	})

	t.Run("Delete of unknown order is NotFound", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, model.IsCode(err, model.ErrCodeNotFound))
	})
}
