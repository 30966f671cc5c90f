// Package memory provides a process-local core.Backend.
// It is used by tests and by ephemeral sessions that must not touch disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// Backend keeps snapshots in a map.
type Backend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes int

	// FailWrites makes every Write fail with the given error (for tests of
	// storage failure paths).
	FailWrites error
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

func (b *Backend) Initialize(ctx context.Context) error { return nil }

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites != nil {
		return b.FailWrites
	}
	b.data[key] = append([]byte(nil), data...)
	b.writes++
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *Backend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string][]byte)
	return nil
}

// Writes returns how many successful writes the backend has seen.
func (b *Backend) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return map[string]int{"keys": len(b.data), "writes": b.writes}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string { return "memory" }

var _ core.Backend = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
