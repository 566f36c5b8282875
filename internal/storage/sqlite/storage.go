package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// schemaMarkers maps each migration version to a table it creates.
// After goose reports the schema as current, these are probed so that a
// version number recorded without the DDL actually running (interrupted
// migration, restored partial backup) is detected and replayed instead
// of trusted.
var schemaMarkers = []struct {
	table   string
	version int64
}{
	{table: "tracks", version: 1},
	{table: "track_folders", version: 2},
}

// Storage represents SQLite storage implementation
type Storage struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite with WAL mode supports many readers but one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	storage := &Storage{db: db}

	if err := storage.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// runMigrations applies embedded migrations and verifies they actually
// took effect.
func (s *Storage) runMigrations(ctx context.Context) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return s.verifySchema(ctx)
}

// verifySchema probes the marker table of every migration. When a
// marker is missing despite the recorded version, the version record is
// dropped and the migration replayed.
func (s *Storage) verifySchema(ctx context.Context) error {
	for _, m := range schemaMarkers {
		exists, err := s.tableExists(ctx, m.table)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		// Version number lied; force goose to replay from this point.
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM goose_db_version WHERE version_id >= ?`, m.version); err != nil {
			return fmt.Errorf("failed to reset schema version %d: %w", m.version, err)
		}
		if err := goose.Up(s.db, "migrations"); err != nil {
			return fmt.Errorf("goose re-up failed: %w", err)
		}
		exists, err = s.tableExists(ctx, m.table)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("schema self-check failed: table %s still missing after replaying migration %d", m.table, m.version)
		}
	}
	return nil
}

func (s *Storage) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe table %s: %w", name, err)
	}
	return true, nil
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Helper functions for bool/int conversion
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
