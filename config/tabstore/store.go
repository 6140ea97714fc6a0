// Package tabstore persists browser tabs and panel preferences. The SQLite
// implementation is the only one; callers depend on the Store interface so
// tests can substitute their own.
package tabstore

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a tab id does not exist.
var ErrNotFound = errors.New("tab not found")

// Preference keys shared between the panel and the CLI.
const (
	PrefInactiveExpanded = "inactive_expanded"
	PrefPrivateMode      = "private_mode"
	PrefSelectedNormal   = "selected_normal"
	PrefSelectedPrivate  = "selected_private"
)

// TabEntry holds the persisted state of a single tab. Normal and private tabs
// share one table and keep independent position sequences.
type TabEntry struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Private      bool      `json:"private,omitempty"`
	Position     int       `json:"position"`
	LastAccessed time.Time `json:"last_accessed,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Store is the interface for tab persistence.
type Store interface {
	// Tab CRUD
	Create(entry TabEntry) error
	Get(id string) (TabEntry, error)
	Update(entry TabEntry) error
	Delete(ids ...string) error

	// List returns the tabs of one browsing mode ordered by position.
	List(private bool) ([]TabEntry, error)
	// Reorder assigns positions 0..n-1 to ids in the given order.
	Reorder(ids []string) error
	// DeleteAll removes every tab and preference.
	DeleteAll() error

	// Preferences. GetPref returns "" for unset keys.
	GetPref(key string) (string, error)
	SetPref(key, value string) error

	// Health
	Ping() error

	// Close releases any resources held by the store.
	Close() error
}
