package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/fs"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/memory"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/mongo"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/postgres"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/s3"
	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/sqlite"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
)

// Adapters lists the storage adapter names accepted by WithAdapter.
func Adapters() []string {
	return []string{"fs", "memory", "sqlite", "postgres", "mongo", "s3"}
}

// Init opens and initializes the storage backend selected by the options.
// The uri argument is adapter-specific: a directory for fs, a file for
// sqlite, a connection string for postgres and mongo, s3://bucket/prefix
// for s3.
func Init(ctx context.Context, uri string, opts ...Option) (core.Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initBackend(ctx, uri, o)
}

func initBackend(ctx context.Context, uri string, o *options) (core.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}

	var (
		b   core.Backend
		err error
	)
	switch o.adapter {
	case "fs":
		b, err = initFS(uri, o)
	case "memory":
		b = memory.New()
	case "sqlite":
		b, err = sqlite.Open(uri)
	case "postgres":
		b, err = postgres.Open(uri)
	case "mongo":
		b, err = initMongo(ctx, uri)
	case "s3":
		b, err = initS3(ctx, uri)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if readOnly, _ := o.config["read_only"].(bool); readOnly && o.adapter == "fs" {
		// Nothing to prepare: a read-only site must not create directories.
		return b, nil
	}
	if err := b.Initialize(ctx); err != nil {
		if c, ok := b.(core.Closer); ok {
			_ = c.Close(ctx)
		}
		return nil, fmt.Errorf("initialize %s backend: %w", o.adapter, err)
	}
	return b, nil
}

// initFS handles the path resolution of the filesystem adapter.
func initFS(path string, o *options) (core.Backend, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only sites cannot damage anything, so they skip the sandbox.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if useTemp && resolved != path {
		o.log().Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	} else if IsDevRun() && bypassSafety && !isReadOnly {
		o.log().Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
	}

	codec, err := store.CodecByName(o.codec)
	if err != nil {
		return nil, err
	}
	return fs.NewBackend(fs.Config{
		Path:         resolved,
		Ext:          codec.Ext(),
		MustExist:    mustExist,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	}), nil
}

// initMongo reads the database name from the URI path (mongodb://host/db).
func initMongo(ctx context.Context, uri string) (core.Backend, error) {
	cfg := mongo.Config{URI: uri}
	if u, err := url.Parse(uri); err == nil {
		cfg.Database = strings.Trim(u.Path, "/")
	}
	return mongo.Open(ctx, cfg)
}

// initS3 parses s3://bucket/prefix?region=..&endpoint=..&path_style=true.
func initS3(ctx context.Context, uri string) (core.Backend, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return nil, fmt.Errorf("invalid s3 uri %q: want s3://bucket/prefix", uri)
	}
	prefix := strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	q := u.Query()
	return s3.New(ctx, s3.Config{
		Bucket:    u.Host,
		Prefix:    prefix,
		Region:    q.Get("region"),
		Endpoint:  q.Get("endpoint"),
		PathStyle: strings.EqualFold(q.Get("path_style"), "true"),
	})
}
