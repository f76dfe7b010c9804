package catalogapi

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mrops-br/product-explorer/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

func (e *entry[T]) fresh(now time.Time, ttl time.Duration) bool {
	return e != nil && now.Sub(e.fetchedAt) < ttl
}

// CachedRepository keeps successful catalog responses for a bounded interval.
// Failures are never cached, so a retry always reaches the remote API.
type CachedRepository struct {
	next    domain.CatalogRepository
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	lookups metric.Int64Counter

	mu         sync.RWMutex
	products   *entry[[]domain.Product]
	categories *entry[[]string]
	byID       map[int]*entry[domain.Product]
}

// NewCachedRepository wraps next with a freshness cache. A ttl <= 0 disables caching.
func NewCachedRepository(next domain.CatalogRepository, ttl time.Duration, meter metric.Meter, logger *slog.Logger) *CachedRepository {
	lookups, _ := meter.Int64Counter(
		"catalog.cache.lookups",
		metric.WithDescription("Catalog cache lookups by resource and result"),
	)

	return &CachedRepository{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		lookups: lookups,
		byID:    make(map[int]*entry[domain.Product]),
	}
}

// FetchAllProducts returns the cached catalog or fetches it
func (r *CachedRepository) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	cached := r.products
	r.mu.RUnlock()

	if cached.fresh(r.now(), r.ttl) {
		r.record(ctx, "products", "hit")
		return slices.Clone(cached.value), nil
	}
	r.record(ctx, "products", "miss")

	products, err := r.next.FetchAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.products = &entry[[]domain.Product]{value: slices.Clone(products), fetchedAt: r.now()}
		r.mu.Unlock()
	}
	return products, nil
}

// FetchProductByID returns a cached product or fetches it
func (r *CachedRepository) FetchProductByID(ctx context.Context, id int) (*domain.Product, error) {
	r.mu.RLock()
	cached := r.byID[id]
	r.mu.RUnlock()

	if cached.fresh(r.now(), r.ttl) {
		r.record(ctx, "product", "hit")
		product := cached.value
		return &product, nil
	}
	r.record(ctx, "product", "miss")

	product, err := r.next.FetchProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.byID[id] = &entry[domain.Product]{value: *product, fetchedAt: r.now()}
		r.mu.Unlock()
	}
	return product, nil
}

// FetchCategories returns the cached category list or fetches it
func (r *CachedRepository) FetchCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	cached := r.categories
	r.mu.RUnlock()

	if cached.fresh(r.now(), r.ttl) {
		r.record(ctx, "categories", "hit")
		return slices.Clone(cached.value), nil
	}
	r.record(ctx, "categories", "miss")

	categories, err := r.next.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.categories = &entry[[]string]{value: slices.Clone(categories), fetchedAt: r.now()}
		r.mu.Unlock()
	}
	return categories, nil
}

// Invalidate drops every cached response
func (r *CachedRepository) Invalidate(ctx context.Context) {
	r.mu.Lock()
	r.products = nil
	r.categories = nil
	r.byID = make(map[int]*entry[domain.Product])
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Catalog cache invalidated")
}

func (r *CachedRepository) record(ctx context.Context, resource, result string) {
	r.lookups.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.String("result", result),
		),
	)
}
