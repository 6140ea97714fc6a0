package auditlog

import "time"

// EventKind identifies the type of audit event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Tab events.
const (
	EventTabOpened   EventKind = "tab_opened"
	EventTabClosed   EventKind = "tab_closed"
	EventTabMoved    EventKind = "tab_moved"
	EventTabSelected EventKind = "tab_selected"
)

// Panel events.
const (
	EventInactiveClosed     EventKind = "inactive_closed"
	EventSectionToggled     EventKind = "section_toggled"
	EventPrivateModeChanged EventKind = "private_mode_changed"
	EventPanelReset         EventKind = "panel_reset"
	EventError              EventKind = "error"
)

// Event is a single audit log entry.
type Event struct {
	ID        int64
	Kind      EventKind
	Timestamp time.Time
	TabID     string
	Private   bool
	Message   string
	Detail    string // JSON-encoded extra data
	Level     string // info, warn, error
}
