package reqcache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed persistence layer for cached responses.
// Entries are append-only: never updated, never evicted. The UNIQUE
// constraint on request_url is the sole integrity guarantee, and violating
// it fails loudly since single-threaded access makes a duplicate write a
// programming error rather than a race.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if absent) the cache database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database %s: %w", path, err)
	}
	slog.Info("Connected to cache database", "path", path)
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init drops and recreates the request table. Destructive; used by the
// initdb bootstrap command only.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS request`); err != nil {
		return fmt.Errorf("failed to drop request table: %w", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	slog.Info("Created request table", "path", s.path)
	return nil
}

// EnsureSchema creates the request table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS request (
			request_id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			request_url TEXT NOT NULL UNIQUE,
			response BLOB NOT NULL,
			timestamp TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create request table: %w", err)
	}
	return nil
}

// Get returns the cached response body for a key, and whether one exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT response FROM request WHERE request_url = ?`, key).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}
	return body, true, nil
}

// Put stores a response under a key. Inserting an existing key violates the
// UNIQUE constraint and returns an error.
func (s *Store) Put(ctx context.Context, key, body string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request (request_url, response, timestamp) VALUES (?, ?, ?)`,
		key, body, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}
