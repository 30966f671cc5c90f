// Package content defines the four HRPC entity kinds: their record shapes,
// storage keys, seed data and ordering policy.
package content

import (
	"fmt"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

// Kind discriminates the entity collections.
type Kind string

const (
	KindNews    Kind = "news"
	KindStaff   Kind = "staff"
	KindFile    Kind = "file"
	KindMeeting Kind = "meeting"
)

// Kinds returns every kind in display order.
func Kinds() []Kind {
	return []Kind{KindNews, KindStaff, KindFile, KindMeeting}
}

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindNews, KindStaff, KindFile, KindMeeting:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, core.ErrUnknownKind)
}

// Key returns the storage key holding the kind's collection.
func (k Kind) Key() string {
	switch k {
	case KindNews:
		return "hrpc_news"
	case KindStaff:
		return "hrpc_staff"
	case KindFile:
		return "hrpc_files"
	case KindMeeting:
		return "hrpc_meetings"
	}
	return ""
}

// Ordering returns where newly created records are placed.
func (k Kind) Ordering() Ordering {
	switch k {
	case KindNews, KindMeeting:
		return Prepend
	}
	return Append
}

// Label is the section title used by the site.
func (k Kind) Label() string {
	switch k {
	case KindNews:
		return "最新消息"
	case KindStaff:
		return "中心成員"
	case KindFile:
		return "SOP 與表單"
	case KindMeeting:
		return "會議記錄"
	}
	return string(k)
}

// Ordering is the insertion policy of a collection.
type Ordering int

const (
	// Append places new records at the tail.
	Append Ordering = iota
	// Prepend places new records at the head (newest first).
	Prepend
)

func (o Ordering) String() string {
	if o == Prepend {
		return "prepend"
	}
	return "append"
}

// Insert returns a new list with item placed according to o.
// The input slice is never modified.
func Insert[T any](o Ordering, list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	if o == Prepend {
		out = append(out, item)
		return append(out, list...)
	}
	out = append(out, list...)
	return append(out, item)
}
