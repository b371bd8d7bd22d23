// Package db opens the SQLite catalog database.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath is the ephemeral catalog database. It is the default: the
// catalog is seeded from built-in profiles on every start, so nothing is
// lost when the process exits.
const MemoryPath = ":memory:"

// Open opens the catalog database at path, sets pragmas, and validates
// connectivity. Pass MemoryPath for an ephemeral catalog.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	// modernc.org/sqlite serializes writes; a single connection also keeps
	// an in-memory database from vanishing between pool checkouts.
	conn.SetMaxOpenConns(1)

	// WAL only applies to on-disk catalogs; an in-memory database rejects it
	// quietly but there is no point asking.
	pragmas := `
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`
	if path != MemoryPath {
		pragmas = "PRAGMA journal_mode = WAL;" + pragmas
	}
	if _, err := conn.Exec(pragmas); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set catalog pragmas: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	return conn, nil
}
