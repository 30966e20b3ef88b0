// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, no C
// toolchain, cross-compiles anywhere Go does. The blank import below
// registers it with database/sql as the "sqlite" driver.
//
// The database is a single file (or ":memory:" in tests). WAL mode lets
// reads proceed while a write is in flight, which matters for a web server;
// foreign keys are off by default in SQLite, so we switch them on to get
// real referential integrity between users and codes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and carries the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath, applies the pragmas, and
// runs migrations. Use ":memory:" for a throwaway test database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open is lazy; Ping forces a real connection so a bad path fails
	// here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Now returns the database clock. Used by the /ping probe: if this query
// answers, both the process and the store are alive.
func (db *DB) Now(ctx context.Context) (time.Time, error) {
	var ts string
	err := db.conn.QueryRowContext(ctx, `SELECT strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: reading clock: %w", err)
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parsing clock value %q: %w", ts, err)
	}
	return t, nil
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent,
// so running it on every startup is safe.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			age           INTEGER,
			gender        TEXT,
			job_role      TEXT,
			institution   TEXT,
			phone         TEXT,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// codes.id is AUTOINCREMENT so save responses carry a plain integer ID.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS codes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL REFERENCES users(id),
			filename   TEXT NOT NULL,
			language   TEXT NOT NULL,
			code       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_codes_user_id ON codes(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating codes table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The driver exposes no typed error for this, so we match the stable
// "UNIQUE constraint failed" text SQLite has used forever.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
