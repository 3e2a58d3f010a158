package prefs

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	visibilityKey = "viewing_visibility"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is the durable local preference store. It outlives screens and
// sessions; everything else this client holds is in-memory only.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize preference store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Visibility reports whether logged viewings post publicly or privately.
// Defaults to public when never set.
func (s *Store) Visibility() (string, error) {
	return s.get(visibilityKey, VisibilityPublic)
}

func (s *Store) SetVisibility(value string) error {
	if value != VisibilityPublic && value != VisibilityPrivate {
		return fmt.Errorf("visibility must be %q or %q", VisibilityPublic, VisibilityPrivate)
	}
	return s.set(visibilityKey, value)
}
