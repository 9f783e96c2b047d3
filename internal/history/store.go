package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"wallswitch/internal/partition"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// timeLayout keeps a fixed width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store manages emission history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for emission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Entry is one image shown on one monitor during one cycle.
type Entry struct {
	ID          int64
	RunID       string
	Cycle       int
	EmittedAt   time.Time
	Monitor     int
	Orientation string
	Index       int
	Total       int
	Path        string
	Hash        string
	Size        uint64
	Width       uint64
	Height      uint64
}

// Open initializes or connects to the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one emitted cycle. Cycles are numbered per run starting at 1.
func (s *Store) Record(ctx context.Context, runID string, partitions []partition.Partition) error {
	if s == nil || s.db == nil {
		return errors.New("history store is closed")
	}
	ctx = ensureContext(ctx)
	emittedAt := s.now().UTC().Format(timeLayout)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var cycle int
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(cycle), 0) + 1 FROM emissions WHERE run_id = ?", runID,
		).Scan(&cycle); err != nil {
			return fmt.Errorf("next cycle: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO emissions (
            run_id, cycle, emitted_at, monitor, orientation,
            image_index, image_total, path, hash, size, width, height
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, part := range partitions {
			for _, record := range part.Records {
				if _, err := stmt.ExecContext(ctx,
					runID,
					cycle,
					emittedAt,
					part.Monitor,
					strings.ToLower(part.Plan.Orientation.String()),
					record.Index,
					record.Total,
					record.Path,
					record.Hash,
					int64(record.Size),
					int64(record.Dimension.Width),
					int64(record.Dimension.Height),
				); err != nil {
					return fmt.Errorf("insert emission: %w", err)
				}
			}
		}
		return tx.Commit()
	})
}

// Recent returns the newest entries first. A non-positive limit returns all rows.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, run_id, cycle, emitted_at, monitor, orientation,
        image_index, image_total, path, hash, size, width, height
        FROM emissions ORDER BY emitted_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query emissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry               Entry
			emittedAt           string
			size, width, height int64
		)
		if err := rows.Scan(
			&entry.ID, &entry.RunID, &entry.Cycle, &emittedAt, &entry.Monitor, &entry.Orientation,
			&entry.Index, &entry.Total, &entry.Path, &entry.Hash, &size, &width, &height,
		); err != nil {
			return nil, fmt.Errorf("scan emission: %w", err)
		}
		parsed, err := time.Parse(timeLayout, emittedAt)
		if err != nil {
			return nil, fmt.Errorf("parse emitted_at %q: %w", emittedAt, err)
		}
		entry.EmittedAt = parsed
		entry.Size = uint64(size)
		entry.Width = uint64(width)
		entry.Height = uint64(height)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emissions: %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM emissions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count emissions: %w", err)
	}
	return count, nil
}

// Prune deletes entries emitted before cutoff and reports how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM emissions WHERE emitted_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune emissions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return removed, nil
}

// PruneRetention deletes entries older than days. Zero days keeps everything.
func (s *Store) PruneRetention(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	return s.Prune(ctx, s.now().AddDate(0, 0, -days))
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM emissions")
	if err != nil {
		return 0, fmt.Errorf("clear emissions: %w", err)
	}
	return res.RowsAffected()
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
