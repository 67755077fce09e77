package codecache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"jewelcase/internal/disccode"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match
// the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry records one content scan outcome. Found distinguishes a scan
// that located a code from a scan that exhausted its window without one.
type Entry struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Code     disccode.Code
	Found    bool
	CachedAt time.Time
}

// Store caches scan results in SQLite. A nil *Store is a valid no-op
// cache so callers never branch on whether caching is enabled.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'jewelcase cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Lookup returns the cached entry for path when size and modification
// time still match. A changed file reads as a miss.
func (s *Store) Lookup(ctx context.Context, path string, size int64, modTime time.Time) (Entry, bool, error) {
	if s == nil || s.db == nil {
		return Entry{}, false, nil
	}
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx,
		"SELECT size, mod_time_ns, code, found, cached_at_ns FROM scan_results WHERE path = ?", path)

	var (
		storedSize int64
		modNanos   int64
		code       string
		found      int
		cachedAt   int64
	)
	switch err := row.Scan(&storedSize, &modNanos, &code, &found, &cachedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return Entry{}, false, nil
	case err != nil:
		return Entry{}, false, fmt.Errorf("query scan result: %w", err)
	}

	if storedSize != size || modNanos != modTime.UnixNano() {
		return Entry{}, false, nil
	}
	entry := Entry{
		Path:     path,
		Size:     storedSize,
		ModTime:  time.Unix(0, modNanos),
		Code:     disccode.Code(code),
		Found:    found != 0,
		CachedAt: time.Unix(0, cachedAt),
	}
	return entry, true, nil
}

// Record inserts or replaces the scan result for entry.Path.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return nil
	}
	if strings.TrimSpace(entry.Path) == "" {
		return errors.New("entry path required")
	}
	ctx = ensureContext(ctx)

	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now()
	}
	foundFlag := 0
	if entry.Found {
		foundFlag = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_results (path, size, mod_time_ns, code, found, cached_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   size = excluded.size,
		   mod_time_ns = excluded.mod_time_ns,
		   code = excluded.code,
		   found = excluded.found,
		   cached_at_ns = excluded.cached_at_ns`,
		entry.Path, entry.Size, entry.ModTime.UnixNano(), string(entry.Code), foundFlag, cachedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record scan result: %w", err)
	}
	return nil
}

// Forget removes the cached result for path, if any.
func (s *Store) Forget(ctx context.Context, path string) error {
	if s == nil || s.db == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scan_results WHERE path = ?", path); err != nil {
		return fmt.Errorf("forget scan result: %w", err)
	}
	return nil
}

// Clear removes every cached result.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scan_results"); err != nil {
		return fmt.Errorf("clear scan results: %w", err)
	}
	return nil
}

// Count returns the number of cached results.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM scan_results").Scan(&count); err != nil {
		return 0, fmt.Errorf("count scan results: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
