// Package credstore is the secure-ish local credential store: an SQLite
// file holding (service, key, value) rows. The engine only ever sees the
// synchronous get/set/delete surface and holds transient copies of the
// values for the duration of one call.
package credstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"canvas-todoist-sync/internal/domain"
)

// Service scope and key names for the three secrets. The key names match
// the keyring entries earlier deployments used, so an operator migrating
// by hand can correlate them.
const (
	ServiceName   = "canvas-todoist-sync"
	KeyCanvasURL  = "canvas_lms_url"
	KeyCanvasKey  = "canvas_api_key"
	KeyTodoistKey = "todoist_api_key"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	service    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (service, key)
);`

type Store struct {
	db      *sql.DB
	service string
}

// Open opens (creating if needed) the store at path, scoped to service.
func Open(path, service string) (*Store, error) {
	if service == "" {
		service = ServiceName
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("credstore: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore: init schema: %w", err)
	}
	return &Store{db: db, service: service}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the stored secret, or "" when absent.
func (s *Store) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(
		`SELECT value FROM credentials WHERE service = ? AND key = ?`, s.service, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore: get %s: %w", key, err)
	}
	return v, nil
}

// Set stores or replaces a secret.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (service, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (service, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		s.service, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("credstore: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a secret. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(
		`DELETE FROM credentials WHERE service = ? AND key = ?`, s.service, key,
	); err != nil {
		return fmt.Errorf("credstore: delete %s: %w", key, err)
	}
	return nil
}

// Credentials assembles the three secrets into the engine's transient copy.
func (s *Store) Credentials() (domain.Credentials, error) {
	var creds domain.Credentials
	var err error
	if creds.CanvasBaseURL, err = s.Get(KeyCanvasURL); err != nil {
		return domain.Credentials{}, err
	}
	if creds.CanvasAPIKey, err = s.Get(KeyCanvasKey); err != nil {
		return domain.Credentials{}, err
	}
	if creds.TodoistAPIKey, err = s.Get(KeyTodoistKey); err != nil {
		return domain.Credentials{}, err
	}
	return creds, nil
}

// Clear removes all three secrets.
func (s *Store) Clear() error {
	for _, k := range []string{KeyCanvasURL, KeyCanvasKey, KeyTodoistKey} {
		if err := s.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
