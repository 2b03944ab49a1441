package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the name of the SQLite database file inside the data directory.
const DBFileName = "phishscan.db"

// SQLiteStore provides SQLite-based persistent key/value storage.
// Values are partitioned by origin; use Bucket to obtain a [Storage]
// scoped to one origin.
type SQLiteStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that readers (the web UI)
	// are not blocked by a writer (the CLI).
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SQLiteStore in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a new file, mode=rwc allows it
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *SQLiteStore) createTables() error {
	schema := `
	-- One row per (origin, key), like a browser's per-origin local storage
	CREATE TABLE IF NOT EXISTS kv (
		origin TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (origin, key)
	);

	CREATE INDEX IF NOT EXISTS idx_kv_updated ON kv(updated_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the value stored under (origin, key), or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, origin, key string) (string, error) {
	query := `SELECT value FROM kv WHERE origin = ? AND key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, origin, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// Set stores value under (origin, key), replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, origin, key, value string) error {
	query := `
	INSERT INTO kv (origin, key, value)
	VALUES (?, ?, ?)
	ON CONFLICT(origin, key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, origin, key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// ListOrigins returns every origin that has at least one stored key.
func (s *SQLiteStore) ListOrigins(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT origin FROM kv ORDER BY origin`)
	if err != nil {
		return nil, fmt.Errorf("failed to list origins: %w", err)
	}
	defer rows.Close()

	var origins []string
	for rows.Next() {
		var origin string
		if err := rows.Scan(&origin); err != nil {
			return nil, fmt.Errorf("failed to scan origin: %w", err)
		}
		origins = append(origins, origin)
	}
	return origins, rows.Err()
}

// Bucket returns a [Storage] whose keys live under the given origin.
func (s *SQLiteStore) Bucket(origin string) Storage {
	return &bucket{store: s, origin: origin}
}

// bucket scopes a SQLiteStore to one origin.
type bucket struct {
	store  *SQLiteStore
	origin string
}

func (b *bucket) Get(ctx context.Context, key string) (string, error) {
	return b.store.Get(ctx, b.origin, key)
}

func (b *bucket) Set(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, b.origin, key, value)
}
