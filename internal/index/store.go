package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"uttale/internal/captions"
	"uttale/internal/config"
)

// Store manages the caption index backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

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

// Open initializes or connects to the index database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
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

// Path returns the backing database file location.
func (s *Store) Path() string {
	return s.path
}

// ReplaceAll swaps the entire index for the provided records in a single
// transaction: delete all lines and scopes, insert the new rows, recompute the
// distinct scope list. An empty record set legitimately empties the index.
func (s *Store) ReplaceAll(ctx context.Context, records []captions.Record) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin replace tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM lines"); err != nil {
			return fmt.Errorf("clear lines: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM scopes"); err != nil {
			return fmt.Errorf("clear scopes: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO lines (scope, scope_folded, start, end_time, text, text_folded) VALUES (?, ?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare line insert: %w", err)
		}
		defer stmt.Close()

		// Folded shadows are written alongside the originals so lookups can
		// case-fold on both sides; SQLite's LOWER only covers ASCII.
		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx,
				rec.Scope, fold(rec.Scope), rec.Start, rec.End, rec.Text, fold(rec.Text)); err != nil {
				return fmt.Errorf("insert line for %s: %w", rec.Scope, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO scopes (scope, scope_folded) SELECT DISTINCT scope, scope_folded FROM lines ORDER BY scope"); err != nil {
			return fmt.Errorf("rebuild scopes: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit replace: %w", err)
		}
		return nil
	})
}

// SearchScopes returns up to limit scope names matching query, in
// lexicographic order. An empty query matches every scope.
func (s *Store) SearchScopes(ctx context.Context, query string, limit int) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT scope FROM scopes WHERE scope_folded LIKE ? ORDER BY scope LIMIT ?",
		likePattern(query), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		scopes = append(scopes, scope)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scopes: %w", err)
	}
	return scopes, nil
}

// SearchText returns up to limit caption records whose text matches query and
// whose scope matches the scope filter. An empty scope filter matches
// everything. Results follow storage order.
func (s *Store) SearchText(ctx context.Context, query, scope string, limit int) ([]captions.Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT scope, start, end_time, text FROM lines WHERE text_folded LIKE ? AND scope_folded LIKE ? LIMIT ?",
		likePattern(query), likePattern(scope), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	var records []captions.Record
	for rows.Next() {
		var rec captions.Record
		if err := rows.Scan(&rec.Scope, &rec.Start, &rec.End, &rec.Text); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	return records, nil
}

// Counts reports the number of indexed caption lines and distinct scopes.
func (s *Store) Counts(ctx context.Context) (lines int64, scopes int64, err error) {
	ctx = ensureContext(ctx)
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM lines").Scan(&lines); err != nil {
		return 0, 0, fmt.Errorf("count lines: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM scopes").Scan(&scopes); err != nil {
		return 0, 0, fmt.Errorf("count scopes: %w", err)
	}
	return lines, scopes, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
