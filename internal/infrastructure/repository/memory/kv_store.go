package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KVStore is an in-memory implementation of domain.KeyValueStore.
// Values do not survive a restart.
type KVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	tracer trace.Tracer
	logger *slog.Logger
}

// NewKVStore creates a new in-memory key-value store
func NewKVStore(tracer trace.Tracer, logger *slog.Logger) *KVStore {
	return &KVStore{
		values: make(map[string][]byte),
		tracer: tracer,
		logger: logger,
	}
}

// Get retrieves the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := s.tracer.Start(ctx, "MemoryKVStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[key]
	if !exists {
		s.logger.DebugContext(ctx, "Key not found in memory store",
			slog.String("key", key),
		)
		span.SetStatus(codes.Ok, "Key not found")
		return nil, false, nil
	}

	span.SetStatus(codes.Ok, "Key found")
	return slices.Clone(value), true, nil
}

// Set stores value under key, replacing any previous value
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "MemoryKVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.value.size", len(value)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = slices.Clone(value)

	s.logger.DebugContext(ctx, "Key stored in memory store",
		slog.String("key", key),
	)

	span.SetStatus(codes.Ok, "Key stored")
	return nil
}
