package quota

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence.
// Counters survive restarts, so a redeploy cannot reset anyone's daily
// budget. It suits single-instance deployments.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent
// performance and periodic checkpointing to balance write performance
// with durability.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.Mutex
	closeOnce          sync.Once

	// prepared statements, compiled once at startup
	incrementStmt *sql.Stmt
	selectStmt    *sql.Stmt
	cleanupStmt   *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite quota store.
type SQLiteStoreConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// CheckpointInterval is how often to checkpoint the WAL and prune
	// counters from past day windows.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite quota store with default settings.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
		Path:               path,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteStoreWithConfig creates a SQLite quota store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.Path,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go store.checkpointLoop()

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quota_counters (
		day TEXT NOT NULL,
		client TEXT NOT NULL,
		requests INTEGER NOT NULL,
		last_updated INTEGER NOT NULL,
		PRIMARY KEY (day, client)
	);

	CREATE INDEX IF NOT EXISTS idx_quota_day ON quota_counters(day);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.incrementStmt, err = s.db.Prepare(`
		INSERT INTO quota_counters (day, client, requests, last_updated)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (day, client) DO UPDATE SET
			requests = requests + 1,
			last_updated = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare increment statement: %w", err)
	}

	s.selectStmt, err = s.db.Prepare(`
		SELECT requests FROM quota_counters
		WHERE day = ? AND client = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare select statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM quota_counters
		WHERE day < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// Increment adds one request for key in the given day window and
// returns the updated count. The upsert and the read run under the
// store lock, so concurrent callers each observe a distinct count.
func (s *SQLiteStore) Increment(ctx context.Context, key, day string) (int, error) {
	if key == "" {
		return 0, fmt.Errorf("key cannot be empty")
	}
	if day == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.incrementStmt.ExecContext(ctx, day, key, time.Now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	var count int
	if err := s.selectStmt.QueryRowContext(ctx, day, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}

	return count, nil
}

// Cleanup removes counters from day windows before the given day key
// and returns how many rows were deleted.
func (s *SQLiteStore) Cleanup(ctx context.Context, beforeDay string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.cleanupStmt.ExecContext(ctx, beforeDay)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(deleted), nil
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.incrementStmt != nil {
			s.incrementStmt.Close()
		}
		if s.selectStmt != nil {
			s.selectStmt.Close()
		}
		if s.cleanupStmt != nil {
			s.cleanupStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints and prunes counters
// left over from past day windows.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
			_, _ = s.Cleanup(context.Background(), DayKey(time.Now()))
		case <-s.done:
			return
		}
	}
}
