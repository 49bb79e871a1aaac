package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"shopkart/internal/media"
	"shopkart/internal/model"
	"shopkart/internal/pricing"
	"shopkart/internal/repository"
	"shopkart/internal/saga"
	"shopkart/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryMediaStore stands in for S3 in end-to-end placement tests.
type memoryMediaStore struct {
	mu      sync.Mutex
	objects map[string]struct{}
	n       int
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{objects: make(map[string]struct{})}
}

func (s *memoryMediaStore) Upload(_ context.Context, f media.File) (model.MediaRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	id := fmt.Sprintf("media/%d-%s", s.n, f.Name)
	s.objects[id] = struct{}{}
	return model.MediaRef{ID: id, URL: "https://media.test/" + id, Format: "png", Width: 1, Height: 1}, nil
}

func (s *memoryMediaStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, id)
	return nil
}

func (s *memoryMediaStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func newPlacementService(testDB *TestDB) (service.OrderService, *memoryMediaStore) {
	logger := zerolog.Nop()
	catalogRepo := repository.NewCatalogRepository(testDB.Pool, logger)
	inventoryRepo := repository.NewInventoryRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	store := newMemoryMediaStore()

	svc := service.NewOrderService(
		orderRepo,
		inventoryRepo,
		service.NewCatalogValidator(catalogRepo, logger),
		pricing.NewCalculator(pricing.DefaultConfig()),
		saga.New(store, logger),
		logger,
	)
	return svc, store
}

func placementRequest(paymentAmount float64, qty int) *model.OrderRequest {
	return &model.OrderRequest{
		CustomerID: "cust-1",
		Items: []model.OrderItemRequest{
			{ProductID: "P001", Quantity: qty, Price: 100.00},
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
			Amount:        paymentAmount,
			Currency:      "INR",
		},
	}
}

func TestOrderPlacement_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()

	t.Run("committed order decrements stock and honours totals", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		svc, _ := newPlacementService(testDB)

		// qty 2 at 100: subtotal 200, shipping 50, tax 36, total 286.
		order, err := svc.PlaceOrder(ctx, placementRequest(286.00, 2), nil)
		require.NoError(t, err)
		assert.Equal(t, 286.00, order.TotalPrice)
		assert.Equal(t, 3, StockOf(t, testDB.Pool, "P001"))

		got, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.TotalPrice, got.TotalPrice)
	})

	t.Run("payment mismatch is a full no-op", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		svc, _ := newPlacementService(testDB)

		_, err := svc.PlaceOrder(ctx, placementRequest(280.00, 2), nil)
		require.Error(t, err)
		assert.True(t, model.IsCode(err, model.ErrCodePaymentAmountMismatch))

		// No order, no stock movement.
		assert.Equal(t, 5, StockOf(t, testDB.Pool, "P001"))
		var count int
		require.NoError(t, testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("concurrent orders for the same product admit one", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		svc, _ := newPlacementService(testDB)

		// P001 has 5 units; two orders of 3 each exceed it combined.
		// qty 3 at 100: subtotal 300, free shipping, tax 54, total 354.
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.PlaceOrder(ctx, placementRequest(354.00, 3), nil)
			}()
		}
		wg.Wait()

		okCount := 0
		for _, err := range errs {
			if err == nil {
				okCount++
			} else {
				assert.True(t, model.IsCode(err, model.ErrCodeInsufficientStock))
			}
		}

		// Exactly one commits; stock never goes negative.
		assert.Equal(t, 1, okCount)
		assert.Equal(t, 2, StockOf(t, testDB.Pool, "P001"))

		// The losing attempt left no order row behind.
		var count int
		require.NoError(t, testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("idempotent retry returns the committed order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		svc, _ := newPlacementService(testDB)

		req := placementRequest(286.00, 2)
		req.IdempotencyKey = "retry-1"

		first, err := svc.PlaceOrder(ctx, req, nil)
		require.NoError(t, err)

		retry := placementRequest(286.00, 2)
		retry.IdempotencyKey = "retry-1"

		second, err := svc.PlaceOrder(ctx, retry, nil)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		// Stock moved once, not twice.
		assert.Equal(t, 3, StockOf(t, testDB.Pool, "P001"))
	})

	t.Run("attachments are stored with the committed order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		svc, store := newPlacementService(testDB)

		attachments := []media.File{{Name: "receipt.png", Data: []byte("x")}}

		order, err := svc.PlaceOrder(ctx, placementRequest(286.00, 2), attachments)
		require.NoError(t, err)
		require.Len(t, order.Attachments, 1)
		assert.Equal(t, 1, store.count())

		got, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, order.Attachments[0].ID, got.Attachments[0].ID)
	})
}
