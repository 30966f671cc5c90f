// Package lifecycle bridges content change events into the
// github.com/aretw0/lifecycle event model.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

type changeSource struct {
	events <-chan core.Event
	kinds  map[string]bool
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source emitting the content events read
// from events, such as a Coordinator subscription or a store watch.
// When kinds are given, only events of those kinds (and resets) pass.
func NewSource(events <-chan core.Event, kinds ...string) lifecycle.Source {
	s := &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	if len(kinds) > 0 {
		s.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) accepts(e core.Event) bool {
	if s.kinds == nil || e.Type == core.EventReset || e.Kind == "" {
		return true
	}
	return s.kinds[e.Kind]
}

// Start forwards events until ctx ends or the input closes, then closes
// the output channel.
func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.accepts(e) {
					continue
				}
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
