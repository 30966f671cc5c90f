// Package inline implements the in-place text editor used for single-field
// tweaks of rendered content.
//
// A Field holds the last externally rendered value and a local draft. On
// Blur the draft is compared with that value and a commit is emitted only
// when they differ.
//
// Known behavior: Render always wins. If the external value changes while
// the user holds an unsaved draft, the draft is replaced; there is no merge.
package inline

import (
	"context"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// CommitFunc receives the new text of a changed field.
type CommitFunc func(ctx context.Context, value string) error

// Field is a single editable text region.
type Field struct {
	OnCommit CommitFunc

	mode     core.Mode
	external string
	draft    string
	focused  bool
}

// New creates a field rendering value under mode.
func New(mode core.Mode, value string, onCommit CommitFunc) *Field {
	return &Field{OnCommit: onCommit, mode: mode, external: value, draft: value}
}

// Render sets the externally supplied value. Any draft is discarded.
func (f *Field) Render(external string) {
	f.external = external
	f.draft = external
}

// SetMode switches the editing mode. Leaving maintainer mode drops focus
// and the draft without committing.
func (f *Field) SetMode(mode core.Mode) {
	f.mode = mode
	if !mode.CanEdit() {
		f.focused = false
		f.draft = f.external
	}
}

// Editable reports whether the region accepts focus.
func (f *Field) Editable() bool { return f.mode.CanEdit() }

// Focus starts editing. It returns false when the field is read-only.
func (f *Field) Focus() bool {
	if !f.mode.CanEdit() {
		return false
	}
	f.focused = true
	return true
}

// Focused reports whether the field is being edited.
func (f *Field) Focused() bool { return f.focused }

// Input replaces the draft. Ignored unless focused.
func (f *Field) Input(text string) {
	if f.focused {
		f.draft = text
	}
}

// Text returns what the region currently shows.
func (f *Field) Text() string {
	if f.focused {
		return f.draft
	}
	return f.external
}

// Blur ends editing. OnCommit runs if and only if the draft differs from the
// last rendered value. A failed commit restores the rendered value.
func (f *Field) Blur(ctx context.Context) (bool, error) {
	if !f.focused {
		return false, nil
	}
	f.focused = false
	if f.draft == f.external {
		return false, nil
	}
	if f.OnCommit != nil {
		if err := f.OnCommit(ctx, f.draft); err != nil {
			f.draft = f.external
			return false, err
		}
	}
	f.external = f.draft
	return true, nil
}
