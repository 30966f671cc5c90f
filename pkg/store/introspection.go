package store

import (
	"github.com/aretw0/introspection"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// State exposes internal state for observability.
type State struct {
	Backend  string   `json:"backend"`
	Codec    string   `json:"codec"`
	ReadOnly bool     `json:"read_only"`
	Seeded   []string `json:"seeded,omitempty"`
	Detail   any      `json:"detail,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	seeded := append([]string(nil), s.seeded...)
	s.mu.Unlock()

	return State{
		Backend:  core.ComponentType(s.backend),
		Codec:    s.codec.Name(),
		ReadOnly: s.readOnly,
		Seeded:   seeded,
		Detail:   core.Describe(s.backend),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
