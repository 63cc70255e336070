package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"supermarket-erp/cache"
	"supermarket-erp/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingStore struct {
	*MemoryStore
	mu    sync.Mutex
	lists int
}

func (c *countingStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.MemoryStore.ListProducts(ctx, filter)
}

func (c *countingStore) listCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

func setupCachedStore(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingStore{MemoryStore: seededStore(t)}
	s := NewCachedStore(inner, cache.NewRedisCache(client, time.Minute), zap.NewNop())
	return s, inner, mr
}

func TestCachedStoreServesCatalogFromCache(t *testing.T) {
	s, inner, mr := setupCachedStore(t)
	ctx := context.Background()

	first, err := s.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, first, 12)
	assert.True(t, mr.Exists("catalog:products"))

	second, err := s.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, second, 12)
	assert.Equal(t, first[3].SKU, second[3].SKU)
	assert.Equal(t, first[3].Stock, second[3].Stock)
	assert.Equal(t, 1, inner.listCalls())
}

func TestCachedStoreBypassesCacheForFilters(t *testing.T) {
	s, inner, mr := setupCachedStore(t)

	out, err := s.ListProducts(context.Background(), models.ProductFilter{Category: "Boissons"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, inner.listCalls())
	assert.False(t, mr.Exists("catalog:products"))
}

func TestCachedStoreInvalidatesOnWrites(t *testing.T) {
	s, inner, mr := setupCachedStore(t)
	ctx := context.Background()

	_, err := s.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.True(t, mr.Exists("catalog:products"))

	_, err = s.CreateSale(ctx, saleDraft(models.SaleLine{ProductID: "1", Quantity: 3, UnitPrice: 2500}))
	require.NoError(t, err)
	assert.False(t, mr.Exists("catalog:products"))

	products, err := s.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 42, products[0].Stock)
	assert.Equal(t, 2, inner.listCalls())

	_, err = s.AdjustStock(ctx, "1", 8)
	require.NoError(t, err)
	assert.False(t, mr.Exists("catalog:products"))
}

func TestCachedStoreSurvivesRedisOutage(t *testing.T) {
	s, _, mr := setupCachedStore(t)
	mr.Close()

	products, err := s.ListProducts(context.Background(), models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 12)
}
