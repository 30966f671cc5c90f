package core

import "github.com/aretw0/introspection"

// Describe returns the introspection state of v, or nil when v does not
// expose any.
func Describe(v any) any {
	if in, ok := v.(introspection.Introspectable); ok {
		return in.State()
	}
	return nil
}

// ComponentType returns the component type of v, or "unknown".
func ComponentType(v any) string {
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "unknown"
}
