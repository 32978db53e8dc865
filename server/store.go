package server

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// openStore opens the backing database. Postgres serves shared deployments;
// the default is a private SQLite file, which needs no setup at all.
func openStore(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to reach postgres store: %w", err)
		}
		return db, nil

	case "", "sqlite":
		path := cfg.DSN
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(home, ".sucktorial", "server.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to reach sqlite store: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// seedIDCounter primes the id generator past every id already in the store.
func (s *Server) seedIDCounter() error {
	var maxID int64
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(id), 0) FROM (
			SELECT id FROM shifts
			UNION ALL
			SELECT id FROM periods
			UNION ALL
			SELECT id FROM leaves
		) ids`,
	).Scan(&maxID)
	if err != nil {
		return fmt.Errorf("failed to seed id counter: %w", err)
	}
	s.nextID.Store(maxID)
	return nil
}
