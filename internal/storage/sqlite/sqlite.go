// Package sqlite implements storage.KeyValue on a single-file SQLite database.
//
// The file lives in the user's home directory by default
// (~/.florabase/storage.db), so a token written by `florabase login` is still
// there for the next command, exactly like a token in localStorage survives a
// tab reload.
//
// modernc.org/sqlite is a pure Go translation of SQLite: no C compiler is
// needed and the CLI cross-compiles like any other Go binary.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AshimStha/FloraBase-Frontend/internal/storage"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// compile-time check that *DB implements storage.KeyValue
var _ storage.KeyValue = (*DB)(nil)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at path and runs migrations.
//
// path examples:
//   - "/home/ada/.florabase/storage.db" → persistent
//   - ":memory:"                        → in-memory, lost on Close (tests)
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one
	// connection so every query sees the same data.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// A second `florabase` process may hold the file briefly; wait for it
	// instead of failing with SQLITE_BUSY.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS local_storage (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating local_storage table: %w", err)
	}
	return nil
}

// Get returns storage.ErrNotFound when key is absent.
func (db *DB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("sqlite: reading key %q: %w", key, err)
	}
	return value, nil
}

// Set inserts or overwrites key.
func (db *DB) Set(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (db *DB) Remove(ctx context.Context, key string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: removing key %q: %w", key, err)
	}
	return nil
}
