// Package journal buffers quick-log lines on disk so the CLI keeps
// working offline. Lines append locally first and drain to the server
// once a connection is available.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Line is one buffered quick-log line.
type Line struct {
	ID         int64
	Text       string
	CapturedAt time.Time
}

// Journal is the SQLite-backed line buffer at dir/journal.db.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dir/journal.db.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_lines (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		text        TEXT NOT NULL,
		captured_at TEXT NOT NULL,
		synced_at   TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Append buffers one line stamped with capturedAt.
func (j *Journal) Append(text string, capturedAt time.Time) (int64, error) {
	res, err := j.db.Exec(
		`INSERT INTO pending_lines (text, captured_at) VALUES (?, ?)`,
		text, capturedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Pending returns unsynced lines, oldest first.
func (j *Journal) Pending() ([]Line, error) {
	rows, err := j.db.Query(
		`SELECT id, text, captured_at FROM pending_lines WHERE synced_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		var at string
		if err := rows.Scan(&l.ID, &l.Text, &at); err != nil {
			return nil, err
		}
		l.CapturedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parsing captured_at of line %d: %w", l.ID, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// PendingCount reports how many lines await sync.
func (j *Journal) PendingCount() (int, error) {
	var n int
	err := j.db.QueryRow(
		`SELECT COUNT(*) FROM pending_lines WHERE synced_at IS NULL`).Scan(&n)
	return n, err
}

// MarkSynced records that a line reached the server.
func (j *Journal) MarkSynced(id int64) error {
	_, err := j.db.Exec(
		`UPDATE pending_lines SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
