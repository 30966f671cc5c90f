// Package fs implements core.Backend on the local filesystem.
// Every key is one file inside the data directory; writes go through a
// temp file and a rename so a reader never observes a partial snapshot.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	Ext       string // e.g. ".json"; must match the store codec
	MustExist bool
	Logger    *slog.Logger
	// ErrorHandler receives watcher failures that would otherwise only be logged.
	ErrorHandler func(error)
}

// Backend implements core.Backend using one file per key.
type Backend struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	recent        map[string]time.Time
}

// NewBackend creates a new filesystem-backed store.
func NewBackend(config Config) *Backend {
	if config.Ext == "" {
		config.Ext = ".json"
	}
	if !strings.HasPrefix(config.Ext, ".") {
		config.Ext = "." + config.Ext
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Backend{
		Path:   config.Path,
		config: config,
		cache:  newCache(),
		recent: make(map[string]time.Time),
	}
}

// Initialize creates the data directory, or checks it when MustExist is set.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist {
		info, err := os.Stat(b.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", b.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", b.Path)
		}
		return nil
	}
	if err := os.MkdirAll(b.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (b *Backend) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.Path, key+b.config.Ext), nil
}

// Read returns the snapshot stored under key.
func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	name, err := b.filename(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if data, ok := b.cache.get(key, info); ok {
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	b.cache.put(key, info, data)
	return data, nil
}

// Write replaces the snapshot stored under key atomically.
func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	name, err := b.filename(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := writeFileAtomic(name, data, 0644); err != nil {
		return err
	}
	if info, err := os.Stat(name); err == nil {
		b.cache.put(key, info, data)
	}

	now := time.Now()
	b.mu.Lock()
	b.lastWrite = &now
	b.recent[key] = now
	b.mu.Unlock()

	b.config.Logger.Debug("snapshot written", "key", key, "bytes", len(data))
	return nil
}

// Keys lists the keys stored in the data directory.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		if key, ok := b.keyOf(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every snapshot file. Other files in the directory are kept.
func (b *Backend) Clear(ctx context.Context) error {
	keys, err := b.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		name, _ := b.filename(key)
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	b.cache.reset()
	return nil
}

// keyOf maps a base file name back to its key.
func (b *Backend) keyOf(base string) (string, bool) {
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return "", false
	}
	if filepath.Ext(base) != b.config.Ext {
		return "", false
	}
	return strings.TrimSuffix(base, b.config.Ext), true
}

// wroteRecently reports whether this process wrote key within window.
func (b *Backend) wroteRecently(key string, window time.Duration) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.recent[key]
	return ok && time.Since(t) < window
}

var _ core.Backend = (*Backend)(nil)
var _ core.Watchable = (*Backend)(nil)
