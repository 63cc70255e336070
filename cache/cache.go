package cache

import (
	"context"
	"errors"

	"supermarket-erp/models"
)

// CatalogCache holds the full product listing
type CatalogCache interface {
	Get(ctx context.Context) ([]models.Product, error)
	Set(ctx context.Context, products []models.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
