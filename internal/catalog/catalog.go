// Package catalog implements the persistent track/playlist/analysis store
// (spec.md component G) on top of a pooled SQLite connection, and the
// cross-cutting typed settings store.
package catalog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a pooled SQLite connection configured for a single-writer,
// many-readers embedded workload, mirroring original_source's r2d2 pool
// bounds (max_size=10, min_idle=2, idle_timeout=300s) via database/sql's
// own pool knobs.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates (or reuses) the SQLite database at path, applies the
// pragmas original_source/db/pool.rs configures per-connection, runs
// pending migrations, and seeds default settings.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, logger: logger}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := s.seedDefaultSettings(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed default settings: %w", err)
	}

	s.logger.Info("catalog opened", "path", path)
	return s, nil
}

// OpenInMemory opens a private, single-connection in-memory database, used
// by tests the way original_source's create_test_pool does.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply foreign_keys pragma: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := s.seedDefaultSettings(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed default settings: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
