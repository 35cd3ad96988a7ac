// Package sqlite provides a SQLite-backed metadata cache that survives
// daemon restarts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.MetadataCache = (*Cache)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS file_state (
	path      TEXT PRIMARY KEY,
	size      INTEGER NOT NULL,
	mod_time  INTEGER NOT NULL,
	checksum  TEXT NOT NULL,
	synced_at INTEGER NOT NULL
);`

// Cache is a SQLite implementation of driven.MetadataCache.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a SQLite cache at the specified data directory.
// If dataDir is empty, defaults to ~/.remsync/data/cache.db.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".remsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Get returns the cached state for a path.
func (c *Cache) Get(ctx context.Context, path string) (*domain.FileState, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT path, size, mod_time, checksum, synced_at FROM file_state WHERE path = ?`, path)

	var state domain.FileState
	var modTime, syncedAt int64
	err := row.Scan(&state.Path, &state.Size, &modTime, &state.Checksum, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query file state: %w", err)
	}
	state.ModTime = time.Unix(0, modTime)
	state.SyncedAt = time.Unix(0, syncedAt)
	return &state, nil
}

// Put stores or replaces the state for state.Path.
func (c *Cache) Put(ctx context.Context, state domain.FileState) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO file_state (path, size, mod_time, checksum, synced_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   size = excluded.size,
		   mod_time = excluded.mod_time,
		   checksum = excluded.checksum,
		   synced_at = excluded.synced_at`,
		state.Path, state.Size, state.ModTime.UnixNano(), state.Checksum, state.SyncedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save file state: %w", err)
	}
	return nil
}

// Evict removes the entry for a path.
func (c *Cache) Evict(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM file_state WHERE path = ?`, path); err != nil {
		return fmt.Errorf("evict file state: %w", err)
	}
	return nil
}

// likeEscaper neutralises LIKE wildcards occurring in path prefixes.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EvictPrefix removes every entry at or under prefix.
func (c *Cache) EvictPrefix(ctx context.Context, prefix string) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM file_state WHERE path = ? OR path LIKE ? ESCAPE '\'`,
		prefix, likeEscaper.Replace(prefix)+string(filepath.Separator)+"%")
	if err != nil {
		return fmt.Errorf("evict file state prefix: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}
