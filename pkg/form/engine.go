// Package form implements the generic add/edit modal: one engine serves
// every entity kind by reading the kind's field schema.
//
// The engine is a state machine:
//
//	Closed -> Open(add|edit) -> Confirm -> Closed
//	                         -> Cancel  -> Closed
//
// It never touches storage. Confirmed values are handed to OnSave, which is
// expected to attach or mint the record id.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/schema"
)

var (
	// ErrAlreadyOpen is returned when opening a form that is still open.
	ErrAlreadyOpen = errors.New("form already open")
	// ErrClosed is returned when editing or confirming a closed form.
	ErrClosed = errors.New("form is closed")
	// ErrUnknownField is returned by Set for names outside the schema.
	ErrUnknownField = errors.New("unknown field")
)

// Mode tells whether the form creates or edits a record.
type Mode int

const (
	Add Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "add"
}

// Submission is what a confirmed form emits.
// ID is the record being edited, zero in add mode.
type Submission struct {
	Mode   Mode
	Kind   content.Kind
	ID     int64
	Values content.Values
}

// SaveFunc receives confirmed submissions.
type SaveFunc func(ctx context.Context, sub Submission) error

// ValidationError lists the fields left empty at confirm time.
type ValidationError struct {
	Kind    content.Kind
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required fields empty: %s", e.Kind, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error { return core.ErrValidation }

// Engine is the modal form. The zero value is a closed form without a
// save callback.
type Engine struct {
	OnSave SaveFunc

	open   bool
	mode   Mode
	kind   content.Kind
	id     int64
	fields []schema.Field
	values content.Values
}

// New creates a closed engine emitting to onSave.
func New(onSave SaveFunc) *Engine {
	return &Engine{OnSave: onSave}
}

// Open shows the form for kind. Every field is reset: to its seed value when
// present, otherwise to empty or the first option of a choice, so edits never
// leak between invocations.
func (e *Engine) Open(mode Mode, kind content.Kind, seed content.Values, id int64) error {
	if e.open {
		return ErrAlreadyOpen
	}
	fields, ok := schema.Lookup(kind)
	if !ok {
		return fmt.Errorf("%q: %w", kind, core.ErrUnknownKind)
	}
	values := make(content.Values, len(fields))
	for _, f := range fields {
		if v, ok := seed[f.Name]; ok && v != "" {
			values[f.Name] = v
			continue
		}
		values[f.Name] = f.Default()
	}
	if mode == Add {
		id = 0
	}

	e.open = true
	e.mode = mode
	e.kind = kind
	e.id = id
	e.fields = fields
	e.values = values
	return nil
}

// IsOpen reports whether the form is shown.
func (e *Engine) IsOpen() bool { return e.open }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// Kind returns the kind being edited.
func (e *Engine) Kind() content.Kind { return e.kind }

// ID returns the record being edited, zero in add mode.
func (e *Engine) ID() int64 { return e.id }

// Fields returns the schema the form renders.
func (e *Engine) Fields() []schema.Field { return e.fields }

// Value returns the current value of a field.
func (e *Engine) Value(name string) string { return e.values[name] }

// Values returns a copy of the current values.
func (e *Engine) Values() content.Values { return e.values.Clone() }

// Set changes a field while the form is open.
func (e *Engine) Set(name, value string) error {
	if !e.open {
		return ErrClosed
	}
	if _, ok := e.values[name]; !ok {
		return fmt.Errorf("%s.%s: %w", e.kind, name, ErrUnknownField)
	}
	e.values[name] = value
	return nil
}

// Confirm validates and emits the form. With any field blank it returns a
// *ValidationError, does not call OnSave and stays open. When OnSave fails
// the form also stays open so the user can retry.
func (e *Engine) Confirm(ctx context.Context) error {
	if !e.open {
		return ErrClosed
	}
	var missing []string
	for _, f := range e.fields {
		if strings.TrimSpace(e.values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: e.kind, Missing: missing}
	}

	sub := Submission{Mode: e.mode, Kind: e.kind, ID: e.id, Values: e.values.Clone()}
	if e.OnSave != nil {
		if err := e.OnSave(ctx, sub); err != nil {
			return err
		}
	}
	e.reset()
	return nil
}

// Cancel discards local edits and closes the form. Nothing is emitted.
func (e *Engine) Cancel() {
	e.reset()
}

func (e *Engine) reset() {
	e.open = false
	e.mode = Add
	e.kind = ""
	e.id = 0
	e.fields = nil
	e.values = nil
}
