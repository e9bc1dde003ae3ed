package persist

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	name        TEXT PRIMARY KEY,
	blob        BLOB NOT NULL,
	saved_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store owns the agent's SQLite database. Components that persist
// rows create their own tables against DB().
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// Open opens (or creates) the database and runs base migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region accessors

// DB returns the underlying *sql.DB for table-owning components.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion accessors

// #region checkpoints

// SaveCheckpoint upserts a named opaque blob.
func (s *Store) SaveCheckpoint(name string, blob []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO checkpoints (name, blob, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, saved_at = excluded.saved_at`,
		name, blob, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", name, err)
	}
	return nil
}

// LoadCheckpoint returns the named blob, or ok=false when absent.
func (s *Store) LoadCheckpoint(name string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT blob FROM checkpoints WHERE name = ?`, name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load checkpoint %s: %w", name, err)
	}
	return blob, true, nil
}

// #endregion checkpoints
