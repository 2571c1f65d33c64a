// ABOUTME: SQLite-backed storage slot
// ABOUTME: Keeps documents in a key/value table of a WAL-mode database
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLiteSlot opens the database at path with WAL mode and initializes the schema.
func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteSlot) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

func (s *SQLiteSlot) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key)
	return err
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
