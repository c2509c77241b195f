package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ledger persists cache membership in SQLite so stats and pruning survive
// process restarts.
type ledger struct {
	db *sql.DB
}

func openLedger(path string) (*ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("datastore: open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("datastore: apply pragma %q: %w", pragma, execErr)
		}
	}

	l := &ledger{db: db}
	if err := l.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *ledger) migrate(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS cache_objects (
        url        TEXT PRIMARY KEY,
        path       TEXT NOT NULL,
        size_bytes INTEGER NOT NULL,
        fetched_at TEXT NOT NULL
    )`
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("datastore: apply schema: %w", err)
	}
	return nil
}

func (l *ledger) close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *ledger) record(ctx context.Context, url, path string, size int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.db.ExecContext(
		ctx,
		`INSERT INTO cache_objects (url, path, size_bytes, fetched_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET path = excluded.path,
             size_bytes = excluded.size_bytes, fetched_at = excluded.fetched_at`,
		url, path, size, timestamp,
	)
	if err != nil {
		return fmt.Errorf("datastore: record object: %w", err)
	}
	return nil
}

func (l *ledger) delete(ctx context.Context, url string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM cache_objects WHERE url = ?`, url); err != nil {
		return fmt.Errorf("datastore: delete object: %w", err)
	}
	return nil
}

// Stats summarizes cache occupancy.
type Stats struct {
	Objects    int
	TotalBytes int64
}

func (l *ledger) stats(ctx context.Context) (Stats, error) {
	row := l.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM cache_objects`)
	var stats Stats
	if err := row.Scan(&stats.Objects, &stats.TotalBytes); err != nil {
		return Stats{}, fmt.Errorf("datastore: read stats: %w", err)
	}
	return stats, nil
}

type ledgerEntry struct {
	URL  string
	Path string
	Size int64
}

// oldest returns entries ordered oldest-first for pruning.
func (l *ledger) oldest(ctx context.Context) ([]ledgerEntry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT url, path, size_bytes FROM cache_objects ORDER BY fetched_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("datastore: list objects: %w", err)
	}
	defer rows.Close()

	var entries []ledgerEntry
	for rows.Next() {
		var entry ledgerEntry
		if err := rows.Scan(&entry.URL, &entry.Path, &entry.Size); err != nil {
			return nil, fmt.Errorf("datastore: scan object: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("datastore: iterate objects: %w", err)
	}
	return entries, nil
}
