package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/mrops-br/product-explorer/internal/infrastructure/config"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KVStore keeps values in redis without expiry
type KVStore struct {
	client *goredis.Client
	tracer trace.Tracer
	logger *slog.Logger
}

// NewClient builds a redis client from configuration
func NewClient(cfg *config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewKVStore creates a redis-backed key-value store
func NewKVStore(client *goredis.Client, tracer trace.Tracer, logger *slog.Logger) *KVStore {
	return &KVStore{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

// Get retrieves the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := s.tracer.Start(ctx, "RedisKVStore.Get")
	defer span.End()

	span.SetAttributes(attribute.String("kv.key", key))

	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		span.SetStatus(codes.Ok, "Key not found")
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Redis GET failed")
		s.logger.WarnContext(ctx, "Redis GET failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("%w: redis get %s: %v", domain.ErrStorageUnavailable, key, err)
	}

	span.SetStatus(codes.Ok, "Key found")
	return value, true, nil
}

// Set stores value under key
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "RedisKVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.Int("kv.value.size", len(value)),
	)

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Redis SET failed")
		s.logger.WarnContext(ctx, "Redis SET failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: redis set %s: %v", domain.ErrStorageUnavailable, key, err)
	}

	span.SetStatus(codes.Ok, "Key stored")
	return nil
}
