// Package feedback persists successful pipeline runs in an append-only
// SQLite table. The store never updates or deletes records; initialization
// is idempotent and safe to run on every process start.
package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"genesis/internal/logging"
	"genesis/internal/pipeline"
)

// Record is one appended (domain, insight) pair. CreatedAt is set by the
// database at write time and is monotonic within a store.
type Record struct {
	ID        int64
	Domain    string
	Insight   string
	CreatedAt time.Time
}

// Store is the append-only feedback log. A single writer connection plus
// busy_timeout keeps concurrent appends from independent pipeline runs safe.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// NewStore opens (creating if needed) the feedback database at the given
// path and ensures the schema exists.
func NewStore(path string) (*Store, error) {
	logging.Store("Initializing feedback store at path: %s", path)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Feedback store ready")
	return store, nil
}

// Compile-time assertion that Store satisfies the pipeline contract.
var _ pipeline.FeedbackRecorder = (*Store)(nil)

// initialize creates the feedback table. Idempotent.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		insight TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}
	return nil
}

// Record appends one (domain, insight) pair. The timestamp is assigned by
// the database at write time.
func (s *Store) Record(ctx context.Context, domain, insight string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO feedback (domain, insight) VALUES (?, ?)", domain, insight)
	if err != nil {
		logging.StoreError("feedback append failed: %v", err)
		return fmt.Errorf("failed to append feedback: %w", err)
	}
	logging.StoreDebug("feedback appended: domain_len=%d insight_len=%d", len(domain), len(insight))
	return nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		n = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, domain, insight, created_at FROM feedback ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Domain, &r.Insight, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of appended records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	logging.Store("Closing feedback store")
	return s.db.Close()
}
