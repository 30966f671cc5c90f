package mutation

import (
	"github.com/aretw0/introspection"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
)

// State exposes the coordinator for observability.
type State struct {
	Mode        string         `json:"mode"`
	Loaded      bool           `json:"loaded"`
	Counts      map[string]int `json:"counts"`
	Subscribers int            `json:"subscribers"`
	Store       any            `json:"store"`
}

// State implements introspection.Introspectable.
func (c *Coordinator) State() any {
	c.mu.Lock()
	counts := make(map[string]int, 4)
	for _, kind := range content.Kinds() {
		ops, _ := c.ops(kind)
		counts[string(kind)] = ops.len()
	}
	st := State{Mode: c.mode.String(), Loaded: c.loaded, Counts: counts}
	c.mu.Unlock()

	c.subMu.Lock()
	st.Subscribers = len(c.subs)
	c.subMu.Unlock()

	st.Store = c.store.State()
	return st
}

// ComponentType implements introspection.Component.
func (c *Coordinator) ComponentType() string {
	return "coordinator"
}

var _ introspection.Introspectable = (*Coordinator)(nil)
var _ introspection.Component = (*Coordinator)(nil)
