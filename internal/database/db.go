package database

import (
	"database/sql"
	"os"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with latency record storage
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "database open failed")
	}

	// WAL lets `prober records` read while a run is writing
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "%s failed", pragma)
		}
	}

	return &DB{db}, nil
}

// OpenReadOnly opens an existing database without creating or modifying it
func OpenReadOnly(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(err, "database open failed")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS latency_records (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        observed_at TEXT NOT NULL,
        target TEXT NOT NULL,
        rtt_ms TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_observed_at ON latency_records(observed_at);
    CREATE INDEX IF NOT EXISTS idx_target_observed_at ON latency_records(target, observed_at);
    `

	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "schema creation failed")
	}

	return nil
}
