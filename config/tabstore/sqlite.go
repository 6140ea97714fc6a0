package tabstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore is a Store implementation backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and runs
// schema migrations. Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

// Create inserts a new tab. Returns an error if the id already exists.
func (s *SQLiteStore) Create(entry TabEntry) error {
	const q = `
		INSERT INTO tabs (id, url, title, private, position, last_accessed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(q,
		entry.ID,
		entry.URL,
		entry.Title,
		boolInt(entry.Private),
		entry.Position,
		formatTime(entry.LastAccessed),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("tab already exists: %s", entry.ID)
		}
		return fmt.Errorf("create tab: %w", err)
	}
	return nil
}

// Get retrieves a tab by id.
func (s *SQLiteStore) Get(id string) (TabEntry, error) {
	const q = `
		SELECT id, url, title, private, position, last_accessed, created_at
		FROM tabs
		WHERE id = ?
	`
	entry, err := scanTabEntry(s.db.QueryRow(q, id))
	if errors.Is(err, ErrNotFound) {
		return TabEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, err
}

// Update replaces all fields of an existing tab.
func (s *SQLiteStore) Update(entry TabEntry) error {
	const q = `
		UPDATE tabs
		SET url = ?, title = ?, private = ?, position = ?, last_accessed = ?, created_at = ?
		WHERE id = ?
	`
	result, err := s.db.Exec(q,
		entry.URL,
		entry.Title,
		boolInt(entry.Private),
		entry.Position,
		formatTime(entry.LastAccessed),
		formatTime(entry.CreatedAt),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update tab: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tab rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, entry.ID)
	}
	return nil
}

// Delete removes the given tabs. Unknown ids are ignored.
func (s *SQLiteStore) Delete(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := fmt.Sprintf(`DELETE FROM tabs WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	if _, err := s.db.Exec(q, args...); err != nil {
		return fmt.Errorf("delete tabs: %w", err)
	}
	return nil
}

// List returns the tabs of one browsing mode ordered by position.
func (s *SQLiteStore) List(private bool) ([]TabEntry, error) {
	const q = `
		SELECT id, url, title, private, position, last_accessed, created_at
		FROM tabs
		WHERE private = ?
		ORDER BY position ASC, created_at ASC
	`
	rows, err := s.db.Query(q, boolInt(private))
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	defer rows.Close()
	return scanTabEntries(rows)
}

// Reorder assigns positions 0..n-1 to ids in a single transaction.
func (s *SQLiteStore) Reorder(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for i, id := range ids {
		result, err := tx.Exec(`UPDATE tabs SET position = ? WHERE id = ?`, i, id)
		if err != nil {
			return fmt.Errorf("reorder tab %s: %w", id, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// DeleteAll removes every tab and preference.
func (s *SQLiteStore) DeleteAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete all: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"tabs", "prefs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("delete all %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// GetPref returns the value stored under key, or "" when unset.
func (s *SQLiteStore) GetPref(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, nil
}

// SetPref stores value under key, replacing any previous value.
func (s *SQLiteStore) SetPref(key, value string) error {
	const q = `
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.Exec(q, key, value); err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTab(row rowScanner) (TabEntry, error) {
	var (
		id, url, title          string
		private, position       int
		lastAccessed, createdAt string
	)
	if err := row.Scan(&id, &url, &title, &private, &position, &lastAccessed, &createdAt); err != nil {
		return TabEntry{}, err
	}
	return TabEntry{
		ID:           id,
		URL:          url,
		Title:        title,
		Private:      private != 0,
		Position:     position,
		LastAccessed: parseTime(lastAccessed),
		CreatedAt:    parseTime(createdAt),
	}, nil
}

// scanTabEntry scans a single row into a TabEntry.
func scanTabEntry(row *sql.Row) (TabEntry, error) {
	entry, err := scanTab(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TabEntry{}, ErrNotFound
		}
		return TabEntry{}, fmt.Errorf("scan tab: %w", err)
	}
	return entry, nil
}

// scanTabEntries scans multiple rows into a slice of TabEntry.
func scanTabEntries(rows *sql.Rows) ([]TabEntry, error) {
	var entries []TabEntry
	for rows.Next() {
		entry, err := scanTab(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tabs: %w", err)
	}
	return entries, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTime formats a time.Time as RFC3339 for storage. Zero time returns empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses an RFC3339 string. Returns zero time on empty or invalid input.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isUniqueConstraintError returns true if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
