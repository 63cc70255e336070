package store

import (
	"context"
	"errors"

	"supermarket-erp/cache"
	"supermarket-erp/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedStore serves the unfiltered catalog from a CatalogCache and drops the
// cached copy whenever products or stock change.
type CachedStore struct {
	Store
	cache  cache.CatalogCache
	logger *zap.Logger
	sfg    singleflight.Group
}

// NewCachedStore wraps inner with a read-through catalog cache
func NewCachedStore(inner Store, c cache.CatalogCache, logger *zap.Logger) *CachedStore {
	return &CachedStore{Store: inner, cache: c, logger: logger}
}

func (s *CachedStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if !filter.IsZero() {
		return s.Store.ListProducts(ctx, filter)
	}

	v, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}

		products, err = s.Store.ListProducts(ctx, filter)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, products); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}

	// callers sharing a flight must not share the slice
	shared := v.([]models.Product)
	return append([]models.Product(nil), shared...), nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CachedStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	created, err := s.Store.CreateProduct(ctx, p)
	if err == nil {
		s.invalidate(ctx)
	}
	return created, err
}

func (s *CachedStore) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	updated, err := s.Store.UpdateProduct(ctx, id, p)
	if err == nil {
		s.invalidate(ctx)
	}
	return updated, err
}

func (s *CachedStore) DeleteProduct(ctx context.Context, id string) error {
	err := s.Store.DeleteProduct(ctx, id)
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

func (s *CachedStore) AdjustStock(ctx context.Context, id string, delta int) (models.Product, error) {
	p, err := s.Store.AdjustStock(ctx, id, delta)
	if err == nil {
		s.invalidate(ctx)
	}
	return p, err
}

func (s *CachedStore) CreateSale(ctx context.Context, draft models.Sale) (models.Sale, error) {
	sale, err := s.Store.CreateSale(ctx, draft)
	if err == nil {
		s.invalidate(ctx)
	}
	return sale, err
}

func (s *CachedStore) RefundSale(ctx context.Context, id, cashier, reason string) (models.Sale, error) {
	refund, err := s.Store.RefundSale(ctx, id, cashier, reason)
	if err == nil {
		s.invalidate(ctx)
	}
	return refund, err
}
