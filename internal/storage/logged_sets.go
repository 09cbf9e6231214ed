package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/replog/internal/models"
)

// InsertLoggedSets batch-inserts quick-entry set rows. Returns count inserted.
func (db *DB) InsertLoggedSets(ctx context.Context, rows []models.LoggedSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO logged_sets (user_id, exercise, set_number, reps,
		weight, unit, captured_at, workout_id) VALUES `
	args := make([]any, 0, len(rows)*8)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args, r.UserID, r.Exercise, r.SetNumber, r.Reps,
			r.Weight, r.Unit, r.CapturedAt, r.WorkoutID)
	}

	query += strings.Join(valueStrings, ",")

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting logged sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PendingSets retrieves a user's sets not yet grouped into a workout,
// oldest first.
func (db *DB) PendingSets(ctx context.Context, userID int) ([]models.LoggedSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise, set_number, reps, weight, unit, captured_at, workout_id
		 FROM logged_sets
		 WHERE user_id = $1 AND workout_id IS NULL
		 ORDER BY captured_at ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying pending sets: %w", err)
	}
	defer rows.Close()

	return scanLoggedSetRows(rows)
}

// QuerySets retrieves logged sets in a time range, optionally filtered by a
// case-insensitive exercise substring. An empty filter matches everything.
func (db *DB) QuerySets(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.LoggedSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise, set_number, reps, weight, unit, captured_at, workout_id
		 FROM logged_sets
		 WHERE captured_at >= $1 AND captured_at < $2 AND user_id = $3
		   AND exercise ILIKE '%' || $4 || '%'
		 ORDER BY captured_at DESC, set_number ASC`,
		start, end, userID, exerciseFilter)
	if err != nil {
		return nil, fmt.Errorf("querying logged sets: %w", err)
	}
	defer rows.Close()

	return scanLoggedSetRows(rows)
}

func scanLoggedSetRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.LoggedSetRow, error) {
	var result []models.LoggedSetRow
	for rows.Next() {
		var r models.LoggedSetRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Exercise, &r.SetNumber, &r.Reps,
			&r.Weight, &r.Unit, &r.CapturedAt, &r.WorkoutID); err != nil {
			return nil, fmt.Errorf("scanning logged set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
