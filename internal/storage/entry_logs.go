package storage

import (
	"context"
	"fmt"
	"time"
)

// EntryLog records one quick-entry line's outcome, matched or not. Rows
// with status no_match are the review queue for lines the recognizers
// could not place.
type EntryLog struct {
	ID           int64     `json:"id"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	RawText      string    `json:"raw_text"`
	Status       string    `json:"status"`
	SetsLogged   int       `json:"sets_logged"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// InsertEntryLog creates a new entry log row and returns its ID.
func (db *DB) InsertEntryLog(ctx context.Context, log EntryLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO entry_logs (user_id, raw_text, status, sets_logged, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id`,
		log.UserID, log.RawText, log.Status, log.SetsLogged,
		log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting entry log: %w", err)
	}
	return id, nil
}

// QueryEntryLogs returns the most recent entry logs for a user. An empty
// status matches all statuses.
func (db *DB) QueryEntryLogs(ctx context.Context, userID, limit int, status string) ([]EntryLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, raw_text, status, sets_logged, duration_ms, error_message
		 FROM entry_logs
		 WHERE user_id = $1 AND ($3 = '' OR status = $3)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit, status)
	if err != nil {
		return nil, fmt.Errorf("querying entry logs: %w", err)
	}
	defer rows.Close()

	var result []EntryLog
	for rows.Next() {
		var l EntryLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.RawText, &l.Status,
			&l.SetsLogged, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning entry log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
