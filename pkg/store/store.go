// Package store implements the persistence store of the content layer: a
// typed key/value view over a core.Backend that owns first-run seeding and
// serialization.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// Store wraps a core.Backend with a codec.
// Reads and writes always move whole snapshots.
type Store struct {
	backend  core.Backend
	codec    Codec
	logger   *slog.Logger
	readOnly bool

	mu     sync.Mutex
	seeded []string
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the snapshot codec. Defaults to compact JSON.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadOnly rejects every write, including first-run seeding.
func WithReadOnly(enabled bool) Option {
	return func(s *Store) {
		s.readOnly = enabled
	}
}

// New creates a Store over backend.
func New(backend core.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		codec:   NewJSONCodec(false),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() core.Backend { return s.backend }

// Codec returns the snapshot codec.
func (s *Store) Codec() Codec { return s.codec }

// ReadOnly reports whether writes are rejected.
func (s *Store) ReadOnly() bool { return s.readOnly }

// Get returns the value stored under key. When nothing is stored yet, initial
// is written and returned, so later calls read the persisted copy and never
// reseed.
func Get[T any](ctx context.Context, s *Store, key string, initial T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	data, err := s.backend.Read(ctx, key)
	switch {
	case err == nil:
		var out T
		if err := s.codec.Unmarshal(data, &out); err != nil {
			return zero, core.StorageError("decode "+key, err)
		}
		return out, nil
	case errors.Is(err, core.ErrNotFound):
		// First access: seed.
	default:
		return zero, core.StorageError("read "+key, err)
	}

	if err := s.write(ctx, key, initial); err != nil {
		return zero, err
	}
	s.seeded = append(s.seeded, key)
	s.logger.Debug("seeded collection", "key", key)
	return initial, nil
}

// Set overwrites the value stored under key.
func Set[T any](ctx context.Context, s *Store, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, key, value)
}

func (s *Store) write(ctx context.Context, key string, value any) error {
	if s.readOnly {
		return fmt.Errorf("write %s: %w", key, core.ErrReadOnly)
	}
	data, err := s.codec.Marshal(value)
	if err != nil {
		return core.StorageError("encode "+key, err)
	}
	if err := s.backend.Write(ctx, key, data); err != nil {
		return core.StorageError("write "+key, err)
	}
	return nil
}

// Keys lists the stored keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, core.StorageError("list keys", err)
	}
	return keys, nil
}

// Clear erases every stored key. Callers must reload their state afterwards
// so collections re-seed from defaults.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return fmt.Errorf("clear: %w", core.ErrReadOnly)
	}
	if err := s.backend.Clear(ctx); err != nil {
		return core.StorageError("clear", err)
	}
	s.seeded = nil
	s.logger.Info("store cleared")
	return nil
}

// Watch observes changes made to the backend by other processes, if supported.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := s.backend.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("watch %s: %w", core.ComponentType(s.backend), core.ErrUnsupported)
	}
	return w.Watch(ctx, pattern)
}
