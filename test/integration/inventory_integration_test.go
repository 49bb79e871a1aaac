package integration

import (
	"context"
	"sync"
	"testing"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewInventoryRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Decrement reduces stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Decrement(ctx, "P001", 2))
		assert.Equal(t, 3, StockOf(t, testDB.Pool, "P001"))
	})

	t.Run("Decrement refuses when stock is short", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		err := repo.Decrement(ctx, "P003", 4) // stock is 3
		require.Error(t, err)

		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeInsufficientStock, de.Code)
		assert.Equal(t, "P003", de.ProductID)

		// Nothing moved.
		assert.Equal(t, 3, StockOf(t, testDB.Pool, "P003"))
	})

	t.Run("Decrement of unknown product is NotFound", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		err := repo.Decrement(ctx, "NOPE", 1)
		require.Error(t, err)
		assert.True(t, model.IsCode(err, model.ErrCodeNotFound))
	})

	t.Run("Increment restores stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Decrement(ctx, "P001", 4))
		require.NoError(t, repo.Increment(ctx, "P001", 4))
		assert.Equal(t, 5, StockOf(t, testDB.Pool, "P001"))
	})

	t.Run("Concurrent decrements never oversell", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// P002 has 10 units; 16 workers each want 1. Exactly 10 succeed.
		const workers = 16
		var wg sync.WaitGroup
		results := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- repo.Decrement(ctx, "P002", 1)
			}()
		}
		wg.Wait()
		close(results)

		succeeded, refused := 0, 0
		for err := range results {
			if err == nil {
				succeeded++
				continue
			}
			require.True(t, model.IsCode(err, model.ErrCodeInsufficientStock))
			refused++
		}

		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 6, refused)
		assert.Equal(t, 0, StockOf(t, testDB.Pool, "P002"))
	})

	t.Run("Two large concurrent orders admit exactly one", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// P001 has 5 units; two orders of 3 each exceed it combined.
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = repo.Decrement(ctx, "P001", 3)
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
		assert.Equal(t, 1, okCount)
		assert.Equal(t, 2, StockOf(t, testDB.Pool, "P001"))
	})
}
