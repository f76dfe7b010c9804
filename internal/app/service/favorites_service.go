package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/product-explorer/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// FavoritesService owns the persisted favorite set.
// Storage and decode failures never reach the caller: reads degrade to an
// empty set and writes become no-ops. Each call re-reads the store.
type FavoritesService struct {
	store      domain.KeyValueStore
	key        string
	mu         sync.Mutex
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewFavoritesService creates the favorites service.
// A nil store means no persistent storage is available.
func NewFavoritesService(
	store domain.KeyValueStore,
	key string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *FavoritesService {
	operations, _ := meter.Int64Counter(
		"favorites.operations",
		metric.WithDescription("Total number of favorites operations"),
	)

	return &FavoritesService{
		store:      store,
		key:        key,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

// GetFavorites returns the current favorite set
func (s *FavoritesService) GetFavorites(ctx context.Context) domain.FavoriteSet {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.GetFavorites")
	defer span.End()

	ids := s.load(ctx)
	span.SetAttributes(attribute.Int("favorites.count", len(ids)))
	s.record(ctx, "get")
	return domain.NewFavoriteSet(ids...)
}

// List returns the favorite ids in the order they were added
func (s *FavoritesService) List(ctx context.Context) []int {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.List")
	defer span.End()

	ids := s.load(ctx)
	s.record(ctx, "list")
	return ids
}

// AddFavorite marks id as favorite. Adding an existing favorite does nothing.
func (s *FavoritesService) AddFavorite(ctx context.Context, id int) {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.AddFavorite")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(ctx, s.load(ctx), id)
	s.record(ctx, "add")
}

// RemoveFavorite unmarks id and persists, whether or not it was a favorite
func (s *FavoritesService) RemoveFavorite(ctx context.Context, id int) {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.RemoveFavorite")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx, s.load(ctx), id)
	s.record(ctx, "remove")
}

// ToggleFavorite flips the membership of id and returns the new membership
func (s *FavoritesService) ToggleFavorite(ctx context.Context, id int) bool {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.ToggleFavorite")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.load(ctx)
	favorite := !slices.Contains(ids, id)
	if favorite {
		s.add(ctx, ids, id)
	} else {
		s.remove(ctx, ids, id)
	}

	span.SetAttributes(attribute.Bool("favorite", favorite))
	s.record(ctx, "toggle")
	return favorite
}

// IsFavorite reports whether id is currently a favorite
func (s *FavoritesService) IsFavorite(ctx context.Context, id int) bool {
	ctx, span := s.tracer.Start(ctx, "FavoritesService.IsFavorite")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))
	s.record(ctx, "is_favorite")
	return slices.Contains(s.load(ctx), id)
}

func (s *FavoritesService) add(ctx context.Context, ids []int, id int) {
	if slices.Contains(ids, id) {
		return
	}
	s.save(ctx, append(ids, id))
}

func (s *FavoritesService) remove(ctx context.Context, ids []int, id int) {
	s.save(ctx, slices.DeleteFunc(ids, func(existing int) bool {
		return existing == id
	}))
}

// load reads the stored ids, dropping duplicates. Any failure yields an empty list.
func (s *FavoritesService) load(ctx context.Context) []int {
	if s.store == nil {
		s.logger.DebugContext(ctx, "Favorites storage not configured")
		return []int{}
	}

	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read favorites",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.recordFailure(ctx, "read")
		return []int{}
	}
	if !found {
		return []int{}
	}

	var stored []int
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.WarnContext(ctx, "Failed to decode favorites, treating as empty",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.recordFailure(ctx, "decode")
		return []int{}
	}

	ids := make([]int, 0, len(stored))
	for _, id := range stored {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *FavoritesService) save(ctx context.Context, ids []int) {
	if s.store == nil {
		s.logger.DebugContext(ctx, "Favorites storage not configured, change not persisted")
		return
	}
	if ids == nil {
		ids = []int{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode favorites",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.store.Set(ctx, s.key, raw); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist favorites",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.recordFailure(ctx, "write")
		return
	}

	s.logger.DebugContext(ctx, "Favorites persisted",
		slog.Int("count", len(ids)),
	)
}

func (s *FavoritesService) record(ctx context.Context, operation string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "success"),
		),
	)
}

func (s *FavoritesService) recordFailure(ctx context.Context, operation string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "failure"),
		),
	)
}
