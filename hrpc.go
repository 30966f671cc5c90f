package hrpc

import (
	"context"
	"log/slog"

	"github.com/NTPCPHARMACY/HRPC/internal/platform"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
)

// Version is the release of the content layer.
const Version = "0.4.0"

// --- Types ---

// Site is the wired content layer returned by New.
type Site = platform.Site

// Config is the file/environment configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a Site.
type Option = platform.Option

// WithLogger sets the logger shared by the store, backend and coordinator.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend allows injecting a custom storage backend.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithAdapter selects the storage adapter by name (fs, memory, sqlite,
// postgres, mongo, s3).
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithCodec selects the value encoding (json, yaml).
func WithCodec(name string) Option {
	return platform.WithCodec(name)
}

// WithMode sets the initial edit mode.
func WithMode(mode core.Mode) Option {
	return platform.WithMode(mode)
}

// WithConfirmer sets how deletions are confirmed.
func WithConfirmer(c mutation.Confirmer) Option {
	return platform.WithConfirmer(c)
}

// WithIDSource overrides record id generation.
func WithIDSource(ids mutation.IDSource) Option {
	return platform.WithIDSource(ids)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithReadOnly opens the store without write access.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety sandboxes the data directory under go run / go test.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler receives errors from the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Operations ---

// New opens a Site at uri and loads every collection, seeding on first run.
func New(ctx context.Context, uri string, opts ...Option) (*Site, error) {
	return platform.New(ctx, uri, opts...)
}

// Init opens and initializes the backend only.
func Init(ctx context.Context, uri string, opts ...Option) (core.Backend, error) {
	return platform.Init(ctx, uri, opts...)
}

// Adapters lists the registered adapter names.
func Adapters() []string {
	return platform.Adapters()
}

// LoadConfig reads hrpc.yaml (or path), .env and the environment.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// ResolveDataPath determines the actual data path, sandboxing it during
// development runs.
func ResolveDataPath(path string, forceTemp bool) string {
	return platform.ResolveDataPath(path, forceTemp)
}

// IsDevRun reports whether the binary runs under go run or go test.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot walks up from dir looking for hrpc.yaml or .hrpc.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
