package domain

import (
	"context"
)

// CatalogRepository is the read-only source of products and categories.
// Implementations must not deduplicate or cache unless they say so.
type CatalogRepository interface {
	FetchAllProducts(ctx context.Context) ([]Product, error)
	FetchProductByID(ctx context.Context, id int) (*Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// KeyValueStore is a durable namespace of raw values.
// Get reports found=false with a nil error when the key is absent.
// Backend failures are returned wrapping ErrStorageUnavailable.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
