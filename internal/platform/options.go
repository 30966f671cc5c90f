package platform

import (
	"log/slog"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
)

// options holds the internal configuration of an HRPC site.
type options struct {
	backend   core.Backend
	logger    *slog.Logger
	adapter   string
	codec     string
	mode      core.Mode
	confirmer mutation.Confirmer
	ids       mutation.IDSource
	config    map[string]interface{}
}

// Option defines a functional option for configuring the site.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		codec:   "json",
		mode:    core.Guest,
		config:  make(map[string]interface{}),
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend injects a ready storage backend. The adapter name and URI
// are then ignored.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithAdapter selects the storage adapter by name: fs (default), memory,
// sqlite, postgres, mongo or s3.
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithCodec selects the snapshot codec by name: json (default) or yaml.
func WithCodec(name string) Option {
	return func(o *options) {
		if name != "" {
			o.codec = name
		}
	}
}

// WithMode sets the initial editing mode. Defaults to Guest.
func WithMode(mode core.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithConfirmer sets the prompt used before deletions.
func WithConfirmer(c mutation.Confirmer) Option {
	return func(o *options) {
		o.confirmer = c
	}
}

// WithIDSource replaces the clock based id source.
func WithIDSource(ids mutation.IDSource) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// WithMustExist requires the data directory to exist already (fs only).
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the data directory into the temp dir (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithReadOnly rejects every write, including first-run seeding.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true) the fs adapter writes to a temporary directory so a dev
// run never touches real content.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for failures of the fs
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
