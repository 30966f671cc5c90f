// Package schema is the field schema registry: for each entity kind, the
// ordered list of editable fields and the widget that edits each one.
package schema

import (
	"encoding/json"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
)

// Widget is a sealed variant over the four widget kinds.
// Use Visit to dispatch exhaustively.
type Widget interface {
	widget()
}

// SingleLine is a one-line text input.
type SingleLine struct{}

// MultiLine is a free-form text area.
type MultiLine struct{}

// Date is a date picker. Values stay free-form strings.
type Date struct{}

// Choice is an enumerated choice over a closed set of options.
type Choice struct {
	Options []string
}

func (SingleLine) widget() {}
func (MultiLine) widget()  {}
func (Date) widget()       {}
func (Choice) widget()     {}

// Visitor handles each widget kind.
type Visitor[R any] struct {
	SingleLine func(SingleLine) R
	MultiLine  func(MultiLine) R
	Date       func(Date) R
	Choice     func(Choice) R
}

// Visit dispatches w to the matching handler of v.
// A nil handler for the widget's kind panics, so every caller must cover
// all four kinds.
func Visit[R any](w Widget, v Visitor[R]) R {
	switch w := w.(type) {
	case SingleLine:
		return v.SingleLine(w)
	case MultiLine:
		return v.MultiLine(w)
	case Date:
		return v.Date(w)
	case Choice:
		return v.Choice(w)
	}
	panic("schema: unknown widget")
}

// WidgetName returns the wire name of w.
func WidgetName(w Widget) string {
	return Visit(w, Visitor[string]{
		SingleLine: func(SingleLine) string { return "single-line-text" },
		MultiLine:  func(MultiLine) string { return "multi-line-text" },
		Date:       func(Date) string { return "date" },
		Choice:     func(Choice) string { return "enumerated-choice" },
	})
}

// Field is one editable field of a kind.
type Field struct {
	Name   string
	Label  string
	Widget Widget
}

// Default returns the value a fresh form starts with: empty, or the first
// option of a choice.
func (f Field) Default() string {
	if c, ok := f.Widget.(Choice); ok && len(c.Options) > 0 {
		return c.Options[0]
	}
	return ""
}

// Options returns the legal values of a choice field, or nil.
func (f Field) Options() []string {
	if c, ok := f.Widget.(Choice); ok {
		return append([]string(nil), c.Options...)
	}
	return nil
}

// MarshalJSON encodes the field as {name, label, widget, options?}.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string   `json:"name"`
		Label   string   `json:"label"`
		Widget  string   `json:"widget"`
		Options []string `json:"options,omitempty"`
	}{f.Name, f.Label, WidgetName(f.Widget), f.Options()})
}

var registry = map[content.Kind][]Field{
	content.KindNews: {
		{Name: "date", Label: "日期", Widget: Date{}},
		{Name: "title", Label: "標題", Widget: SingleLine{}},
		{Name: "description", Label: "內容描述", Widget: MultiLine{}},
	},
	content.KindStaff: {
		{Name: "role", Label: "職稱", Widget: SingleLine{}},
		{Name: "name", Label: "姓名", Widget: SingleLine{}},
		{Name: "description", Label: "簡介", Widget: MultiLine{}},
		{Name: "icon", Label: "圖標 (FontAwesome)", Widget: Choice{Options: content.Icons()}},
	},
	content.KindFile: {
		{Name: "name", Label: "檔案名稱", Widget: SingleLine{}},
		// Dates of documents are shown as "2025/08/28", so no picker.
		{Name: "date", Label: "更新日期", Widget: SingleLine{}},
		{Name: "type", Label: "類型", Widget: Choice{Options: content.DocTypes()}},
	},
	content.KindMeeting: {
		{Name: "name", Label: "會議名稱", Widget: SingleLine{}},
		{Name: "date", Label: "日期", Widget: Date{}},
	},
}

// Lookup returns the schema of kind, or false for unknown kinds.
// The returned slice is a copy.
func Lookup(kind content.Kind) ([]Field, bool) {
	fields, ok := registry[kind]
	if !ok {
		return nil, false
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		if c, isChoice := f.Widget.(Choice); isChoice {
			f.Widget = Choice{Options: append([]string(nil), c.Options...)}
		}
		out[i] = f
	}
	return out, true
}

// For returns the schema of kind, nil for unknown kinds.
func For(kind content.Kind) []Field {
	fields, _ := Lookup(kind)
	return fields
}
