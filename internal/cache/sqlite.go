package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/newsfilter/internal/model"
)

// SQLiteFileName is the database file created inside the cache directory.
const SQLiteFileName = "newsfilter-cache.db"

// SQLiteOptions configures SQLiteStore behavior.
type SQLiteOptions struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultSQLiteOptions returns the default options.
func DefaultSQLiteOptions() SQLiteOptions {
	return SQLiteOptions{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// SQLiteStore caches results in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// OpenSQLite opens or creates the cache database in dir.
func OpenSQLite(dir string, opts SQLiteOptions) (*SQLiteStore, error) {
	dbPath := filepath.Join(dir, SQLiteFileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("cache database not found at %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, dbPath: dbPath, now: time.Now}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(context.Background()); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		cache_key TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_results_expires ON results(expires_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Get implements Store. Expired rows are treated as misses.
func (s *SQLiteStore) Get(ctx context.Context, key string) (model.Result, error) {
	now := s.now().UnixNano()
	query, args, err := sq.Select("payload").
		From("results").
		Where(sq.Eq{"cache_key": key}).
		Where(sq.Or{sq.Eq{"expires_at": 0}, sq.Gt{"expires_at": now}}).
		ToSql()
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to build query: %w", err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, ErrCacheMiss
	}
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to read cached result: %w", err)
	}
	return decodeResult([]byte(payload))
}

// Set implements Store. Existing entries for key are replaced.
func (s *SQLiteStore) Set(ctx context.Context, key string, result model.Result, ttl time.Duration) error {
	payload, err := encodeResult(result)
	if err != nil {
		return err
	}

	now := s.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}

	query, args, err := sq.Insert("results").
		Columns("cache_key", "url", "status", "payload", "created_at", "expires_at").
		Values(key, result.URL, result.Status.String(), string(payload), now.UnixNano(), expiresAt).
		Suffix(`ON CONFLICT(cache_key) DO UPDATE SET
			url = excluded.url,
			status = excluded.status,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	query, args, err := sq.Delete("results").
		Where(sq.Gt{"expires_at": 0}).
		Where(sq.LtOrEq{"expires_at": s.now().UnixNano()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries, expired or not.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("results").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
