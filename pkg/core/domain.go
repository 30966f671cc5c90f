// Package core holds the contracts shared by every HRPC content component:
// the raw key/value storage contract, the editing mode and change events.
package core

import "fmt"

// Mode is the application-level editing mode.
// It never affects data, only which mutation entry points are accepted.
type Mode int

const (
	// Guest is the default read-only mode of the public site.
	Guest Mode = iota
	// Maintainer enables every mutation affordance.
	Maintainer
)

func (m Mode) String() string {
	switch m {
	case Guest:
		return "guest"
	case Maintainer:
		return "maintainer"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// CanEdit reports whether mutations are accepted in this mode.
func (m Mode) CanEdit() bool {
	return m == Maintainer
}

// EventType represents the type of change applied to a stored collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReset  EventType = "RESET"
)

// Event represents a change of a stored key.
// Kind and ID are set when the change comes from a record mutation.
type Event struct {
	Type      EventType
	Key       string
	Kind      string
	ID        int64
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s %s/%d", e.Type, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
