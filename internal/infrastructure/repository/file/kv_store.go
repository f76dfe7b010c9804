package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mrops-br/product-explorer/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errCorruptFile = errors.New("corrupt store file")

// KVStore persists a key-value namespace as one JSON object on local disk.
// Each value is kept verbatim, so a corrupt value never hides the others.
type KVStore struct {
	mu     sync.Mutex
	path   string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewKVStore creates a file-backed store at path. The file is created on first write.
func NewKVStore(path string, tracer trace.Tracer, logger *slog.Logger) *KVStore {
	return &KVStore{
		path:   path,
		tracer: tracer,
		logger: logger,
	}
}

// Get retrieves the raw value stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := s.tracer.Start(ctx, "FileKVStore.Get")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.String("kv.path", s.path),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read store")
		return nil, false, err
	}

	value, exists := values[key]
	if !exists {
		span.SetStatus(codes.Ok, "Key not found")
		return nil, false, nil
	}

	s.logger.DebugContext(ctx, "Key read from file store",
		slog.String("key", key),
	)
	span.SetStatus(codes.Ok, "Key found")
	return []byte(value), true, nil
}

// Set stores value under key and rewrites the file atomically
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "FileKVStore.Set")
	defer span.End()

	span.SetAttributes(
		attribute.String("kv.key", key),
		attribute.String("kv.path", s.path),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, errCorruptFile) {
		s.logger.WarnContext(ctx, "Replacing unreadable file store",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		values, err = map[string]string{}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read store")
		return err
	}
	values[key] = string(value)

	if err := s.save(values); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write store")
		return err
	}

	s.logger.DebugContext(ctx, "Key written to file store",
		slog.String("key", key),
	)
	span.SetStatus(codes.Ok, "Key stored")
	return nil
}

// load reads the namespace. A missing file is an empty namespace.
// A file that is not a JSON object fails with errCorruptFile; Set replaces it.
func (s *KVStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}

	values := map[string]string{}
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %w %s: %v", domain.ErrStorageUnavailable, errCorruptFile, s.path, err)
	}
	return values, nil
}

func (s *KVStore) save(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrStorageUnavailable, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStorageUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorageUnavailable, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}
	return nil
}
