// Package sqlite persists ledger events, the scene header, and the world
// registry in a single SQLite database file.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/thedeuce2/Game-Master/internal/platform/storage/sqlitemigrate"
	"github.com/thedeuce2/Game-Master/internal/storage/sqlite/migrations"
)

// Store implements the storage interfaces backed by SQLite.
type Store struct {
	sqlDB *sql.DB

	// mu serializes read-modify-write transactions (event appends and
	// header updates) within this store instance so sequence numbers
	// and timestamps stay monotonic without busy-retry loops.
	mu sync.Mutex
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
