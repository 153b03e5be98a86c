// Package sqlite implements repository.StateGateway on an embedded SQLite
// database.
//
// The whole state aggregate is stored as one JSON document in the
// snapshots table, keyed by snapshot name:
//
//	snapshots(name TEXT PRIMARY KEY, data TEXT, saved_at DATETIME)
//
// Every Save replaces the row, so the table only ever holds the latest
// snapshot per name. This mirrors how the core works: it keeps the full
// state in memory and writes the full state after every mutation.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C compiler is
// needed and ":memory:" works for tests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/socialhub/internal/repository"
)

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
	name string // snapshot row this DB reads and writes
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/socialhub.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database, lost on close
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection: there is a single writer, and every pooled connection
	// to ":memory:" would otherwise get its own empty database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers (e.g. a backup tool) see the last committed snapshot
	// while a save is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn, name: repository.DefaultSnapshotName}

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

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is safe to run on
// every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			name     TEXT PRIMARY KEY,
			data     TEXT NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}
	return nil
}
