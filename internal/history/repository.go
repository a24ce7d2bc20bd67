// Package history keeps a local record of dashboard snapshots so page
// metrics can be compared across runs.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/database"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"
)

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository defines the persistence interface for snapshot history.
type Repository interface {
	Save(snap *vitals.Snapshot) (int, error)
	List(page string, limit int) ([]Entry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the history repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	r := &SQLiteRepository{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS page_snapshots (
            id            INTEGER PRIMARY KEY AUTOINCREMENT,
            fetched_at    TEXT    NOT NULL,
            page          TEXT    NOT NULL,
            lcp           REAL    NOT NULL,
            inp           REAL    NOT NULL,
            cls           REAL    NOT NULL,
            status        TEXT    NOT NULL,
            status_source TEXT    NOT NULL DEFAULT 'source'
        );
        CREATE INDEX IF NOT EXISTS idx_page_snapshots_fetched_at ON page_snapshots(fetched_at);
        CREATE INDEX IF NOT EXISTS idx_page_snapshots_page ON page_snapshots(page, fetched_at);
    `
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Save records every page row of snap in one transaction and returns the
// number of rows written. A zero FetchedAt is stamped with the current time.
func (r *SQLiteRepository) Save(snap *vitals.Snapshot) (int, error) {
	if snap == nil || len(snap.PageRows) == 0 {
		return 0, nil
	}
	at := snap.FetchedAt
	if at.IsZero() {
		at = r.now()
	}
	ts := at.UTC().Format(timeLayout)

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("history: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT INTO page_snapshots (fetched_at, page, lcp, inp, cls, status, status_source)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("history: prepare failed: %w", err)
	}
	defer stmt.Close()

	for _, row := range snap.PageRows {
		if _, err := stmt.Exec(ts, row.Page, row.LCP, row.INP, row.CLS, string(row.Status), string(row.StatusSource)); err != nil {
			return 0, fmt.Errorf("history: insert %s failed: %w", row.Page, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit failed: %w", err)
	}
	return len(snap.PageRows), nil
}

// List returns up to limit entries, newest snapshot first and in page
// order within a snapshot. A non-empty page restricts the result to that
// exact page.
func (r *SQLiteRepository) List(page string, limit int) ([]Entry, error) {
	const cols = `SELECT id, fetched_at, page, lcp, inp, cls, status, status_source FROM page_snapshots`

	var (
		rows *sql.Rows
		err  error
	)
	if page == "" {
		rows, err = r.db.Query(cols+` ORDER BY fetched_at DESC, id ASC LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(cols+` WHERE page = ? ORDER BY fetched_at DESC, id ASC LIMIT ?`, page, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.Exec(`DELETE FROM page_snapshots WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			ts     string
			status string
			source string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Page, &e.LCP, &e.INP, &e.CLS, &status, &source); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		e.FetchedAt, _ = time.Parse(timeLayout, ts)
		e.Status = vitals.Status(status)
		e.StatusSource = vitals.StatusSource(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
