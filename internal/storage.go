package internal

import (
	"database/sql"
	"errors"
)

// Storage is a persisted string key/value store, the CLI's counterpart of browser storage
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage creates a new Storage instance over an opened database
func NewStorage(db *sql.DB, path string) *Storage {
	return &Storage{db: db, path: path}
}

// OpenStorage opens the database at path and wraps it
func OpenStorage(path string) (*Storage, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStorage(db, path), nil
}

// Path returns the database location
func (s *Storage) Path() string {
	return s.path
}

// Get returns the value stored under key
func (s *Storage) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM client_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key, replacing any previous value
func (s *Storage) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO client_storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Clear deletes every stored key
func (s *Storage) Clear() error {
	if _, err := s.db.Exec("DELETE FROM client_storage"); err != nil {
		return &StorageError{Path: s.path, Op: "clear", Err: err}
	}
	return nil
}

// LoadAll returns every stored pair ordered by key
func (s *Storage) LoadAll() ([]KeyValuePair, error) {
	pairs, err := QueryClientStorage(s.db, "%")
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	return pairs, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}
