package mutation

import (
	"context"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

type modeKey struct{}

// ContextWithMode scopes an editing mode to ctx. It takes precedence over
// the coordinator's process-wide mode, which lets request-based surfaces
// authorize one call at a time.
func ContextWithMode(ctx context.Context, mode core.Mode) context.Context {
	return context.WithValue(ctx, modeKey{}, mode)
}

// ModeFrom returns the mode scoped to ctx, if any.
func ModeFrom(ctx context.Context) (core.Mode, bool) {
	mode, ok := ctx.Value(modeKey{}).(core.Mode)
	return mode, ok
}
