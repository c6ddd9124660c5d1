package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS field_definitions (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		type      TEXT NOT NULL,
		required  INTEGER NOT NULL DEFAULT 0,
		options   TEXT NOT NULL DEFAULT '[]',
		ord       INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task_records (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL,
		project       TEXT NOT NULL,
		task_name     TEXT NOT NULL,
		task_type     TEXT NOT NULL,
		time_spent    REAL NOT NULL,
		notes         TEXT NOT NULL DEFAULT '',
		custom_fields TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_records_user ON task_records(user_id);
	CREATE INDEX IF NOT EXISTS idx_records_date ON task_records(date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('export_format', 'xlsx'),
		('export_dir',    ''),
		('week_start',    'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns the worklog database path under the user config dir.
func DefaultDBPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("worklog", "worklog.db"))
}
