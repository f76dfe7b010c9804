package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/product-explorer/internal/app/service"
	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/mrops-br/product-explorer/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

const favoritesKey = "product-explorer-favorites"

var (
	tracer = noop.NewTracerProvider().Tracer("test")
	meter  = metricnoop.NewMeterProvider().Meter("test")
	logger = slog.New(slog.DiscardHandler)
)

func newFavorites(store domain.KeyValueStore) *service.FavoritesService {
	return service.NewFavoritesService(store, favoritesKey, tracer, meter, logger)
}

func newMemoryStore() *memory.KVStore {
	return memory.NewKVStore(tracer, logger)
}

// failingStore simulates a backend that is configured but broken
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("%w: disk gone", domain.ErrStorageUnavailable)
}

func (failingStore) Set(context.Context, string, []byte) error {
	return fmt.Errorf("%w: disk gone", domain.ErrStorageUnavailable)
}

// stubCatalog serves a fixed catalog and counts calls
type stubCatalog struct {
	mu          sync.Mutex
	products    []domain.Product
	categories  []string
	err         error
	calls       int
	invalidated int
}

func (c *stubCatalog) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.products, nil
}

func (c *stubCatalog) FetchProductByID(ctx context.Context, id int) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &domain.HTTPError{Op: fmt.Sprintf("fetch product %d", id), Status: 404, StatusText: "Not Found"}
}

func (c *stubCatalog) FetchCategories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.categories, nil
}

func (c *stubCatalog) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

func catalogOf(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := "shoes"
		if i%3 == 0 {
			category = "hats"
		}
		products = append(products, domain.Product{
			ID:       i,
			Title:    fmt.Sprintf("Product %d", i),
			Price:    decimal.NewFromInt(int64(100 - i)),
			Category: category,
		})
	}
	return products
}
