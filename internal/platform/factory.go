package platform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
)

// Site bundles the wired content layer: backend, store and coordinator.
type Site struct {
	Backend     core.Backend
	Store       *store.Store
	Coordinator *mutation.Coordinator
	Logger      *slog.Logger
}

// New opens the backend named by the options, wires the store and the
// coordinator, and loads every collection (seeding on first run).
//
//	site, err := hrpc.New(ctx, "./data", hrpc.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*Site, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	backend, err := initBackend(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	codec, err := store.CodecByName(o.codec)
	if err != nil {
		return nil, err
	}
	readOnly, _ := o.config["read_only"].(bool)
	s := store.New(backend,
		store.WithCodec(codec),
		store.WithLogger(o.logger),
		store.WithReadOnly(readOnly),
	)

	coord := mutation.New(s,
		mutation.WithLogger(o.logger),
		mutation.WithMode(o.mode),
		mutation.WithConfirmer(o.confirmer),
		mutation.WithIDSource(o.ids),
	)
	site := &Site{Backend: backend, Store: s, Coordinator: coord, Logger: o.log()}
	if err := coord.Load(ctx); err != nil {
		return nil, errors.Join(err, site.Close(ctx))
	}
	o.log().Debug("site opened", "adapter", core.ComponentType(backend), "codec", codec.Name(), "read_only", readOnly)
	return site, nil
}

// Close ends subscriptions and releases backend connections.
func (s *Site) Close(ctx context.Context) error {
	s.Coordinator.Close()
	if c, ok := s.Backend.(core.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}

// State implements introspection.Introspectable.
func (s *Site) State() any {
	return s.Coordinator.State()
}

// ComponentType implements introspection.Component.
func (s *Site) ComponentType() string { return "site" }
