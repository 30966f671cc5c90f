package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// Icon is a staff display icon tag.
type Icon string

const (
	IconDoctor  Icon = "user-md"
	IconUser    Icon = "user"
	IconNurse   Icon = "user-nurse"
	IconOfficer Icon = "user-tie"
)

// Icons returns the closed set of staff icons.
func Icons() []string {
	return []string{string(IconDoctor), string(IconUser), string(IconNurse), string(IconOfficer)}
}

// DocType is a document type tag.
type DocType string

const (
	DocPDF  DocType = "pdf"
	DocWord DocType = "doc"
)

// DocTypes returns the closed set of document types.
func DocTypes() []string {
	return []string{string(DocPDF), string(DocWord)}
}

// Values is the flat, identity-less field map collected by forms.
type Values map[string]string

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Record is the tagged union over the four entity shapes.
// It is sealed: only the types of this package implement it.
type Record interface {
	RecordID() int64
	RecordKind() Kind
	// Values returns the editable fields, without the id.
	Values() Values
	sealed()
}

// Entity constrains generic code to the concrete record types.
type Entity interface {
	Announcement | StaffMember | Document | MeetingRecord
	Record
}

// Announcement is a news item, shown newest first.
type Announcement struct {
	ID          int64  `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// StaffMember is a member of the center.
type StaffMember struct {
	ID          int64  `json:"id" yaml:"id"`
	Role        string `json:"role" yaml:"role"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        Icon   `json:"icon" yaml:"icon"`
}

// Document is a downloadable SOP or form.
type Document struct {
	ID   int64   `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	Date string  `json:"date" yaml:"date"`
	Type DocType `json:"type" yaml:"type"`
}

// MeetingRecord is a meeting minutes entry, shown newest first.
type MeetingRecord struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Date string `json:"date" yaml:"date"`
}

func (a Announcement) RecordID() int64  { return a.ID }
func (s StaffMember) RecordID() int64   { return s.ID }
func (d Document) RecordID() int64      { return d.ID }
func (m MeetingRecord) RecordID() int64 { return m.ID }

func (Announcement) RecordKind() Kind  { return KindNews }
func (StaffMember) RecordKind() Kind   { return KindStaff }
func (Document) RecordKind() Kind      { return KindFile }
func (MeetingRecord) RecordKind() Kind { return KindMeeting }

func (Announcement) sealed()  {}
func (StaffMember) sealed()   {}
func (Document) sealed()      {}
func (MeetingRecord) sealed() {}

func (a Announcement) Values() Values {
	return Values{"date": a.Date, "title": a.Title, "description": a.Description}
}

func (s StaffMember) Values() Values {
	return Values{"role": s.Role, "name": s.Name, "description": s.Description, "icon": string(s.Icon)}
}

func (d Document) Values() Values {
	return Values{"name": d.Name, "date": d.Date, "type": string(d.Type)}
}

func (m MeetingRecord) Values() Values {
	return Values{"name": m.Name, "date": m.Date}
}

// Fields returns the field names of kind in form order.
func Fields(kind Kind) []string {
	switch kind {
	case KindNews:
		return []string{"date", "title", "description"}
	case KindStaff:
		return []string{"role", "name", "description", "icon"}
	case KindFile:
		return []string{"name", "date", "type"}
	case KindMeeting:
		return []string{"name", "date"}
	}
	return nil
}

// Decode builds a record of kind from values, with a zero id.
// Every field must be present and non-blank; enumerated fields must hold
// one of their legal values.
func Decode(kind Kind, values Values) (Record, error) {
	fields := Fields(kind)
	if fields == nil {
		return nil, fmt.Errorf("%q: %w", kind, core.ErrUnknownKind)
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %s: %w", kind, strings.Join(missing, ", "), core.ErrValidation)
	}

	switch kind {
	case KindNews:
		return Announcement{Date: values["date"], Title: values["title"], Description: values["description"]}, nil
	case KindStaff:
		if !slices.Contains(Icons(), values["icon"]) {
			return nil, fmt.Errorf("staff: icon %q: %w", values["icon"], core.ErrValidation)
		}
		return StaffMember{Role: values["role"], Name: values["name"], Description: values["description"], Icon: Icon(values["icon"])}, nil
	case KindFile:
		if !slices.Contains(DocTypes(), values["type"]) {
			return nil, fmt.Errorf("file: type %q: %w", values["type"], core.ErrValidation)
		}
		return Document{Name: values["name"], Date: values["date"], Type: DocType(values["type"])}, nil
	default:
		return MeetingRecord{Name: values["name"], Date: values["date"]}, nil
	}
}

// DecodeAs is Decode for a statically known entity type.
func DecodeAs[T Entity](values Values) (T, error) {
	var zero T
	rec, err := Decode(zero.RecordKind(), values)
	if err != nil {
		return zero, err
	}
	return rec.(T), nil
}

// WithID returns rec carrying id.
func WithID[T Entity](rec T, id int64) T {
	switch r := any(rec).(type) {
	case Announcement:
		r.ID = id
		return any(r).(T)
	case StaffMember:
		r.ID = id
		return any(r).(T)
	case Document:
		r.ID = id
		return any(r).(T)
	case MeetingRecord:
		r.ID = id
		return any(r).(T)
	}
	return rec
}

// Map returns the record's fields including its id, as used by filters.
func Map(rec Record) map[string]any {
	out := map[string]any{"id": rec.RecordID(), "kind": string(rec.RecordKind())}
	for k, v := range rec.Values() {
		out[k] = v
	}
	return out
}
