package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/replog/internal/models"
	"github.com/google/uuid"
)

// ErrNoPendingSets is returned by FinalizeWorkout when the user has no
// ungrouped sets to close into a workout.
var ErrNoPendingSets = errors.New("no pending sets")

// FinalizeWorkout groups all of a user's pending sets into a new workout.
// The workout is stamped with a fresh ID, its time span comes from the
// earliest and latest captured_at of the grouped sets, and every pending
// row is claimed in the same transaction.
func (db *DB) FinalizeWorkout(ctx context.Context, userID int) (*models.WorkoutRow, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	w := models.WorkoutRow{ID: uuid.New(), UserID: userID}
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*)::int, COALESCE(MIN(captured_at), NOW()), COALESCE(MAX(captured_at), NOW())
		 FROM logged_sets
		 WHERE user_id = $1 AND workout_id IS NULL`,
		userID).Scan(&w.SetCount, &w.StartedAt, &w.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("counting pending sets: %w", err)
	}
	if w.SetCount == 0 {
		return nil, ErrNoPendingSets
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, started_at, ended_at, set_count)
		 VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.UserID, w.StartedAt, w.EndedAt, w.SetCount)
	if err != nil {
		return nil, fmt.Errorf("inserting workout: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE logged_sets SET workout_id = $1
		 WHERE user_id = $2 AND workout_id IS NULL`,
		w.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("claiming pending sets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing workout: %w", err)
	}
	return &w, nil
}

// WorkoutDetail is a workout with the sets it groups.
type WorkoutDetail struct {
	models.WorkoutRow
	Sets []models.LoggedSetRow
}

// QueryWorkouts retrieves workouts in a time range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, started_at, ended_at, set_count
		 FROM workouts
		 WHERE started_at >= $1 AND started_at < $2 AND user_id = $3
		 ORDER BY started_at DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.UserID, &w.StartedAt, &w.EndedAt, &w.SetCount); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a single workout by ID with its sets.
func (db *DB) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*WorkoutDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, started_at, ended_at, set_count
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		workoutID, userID)

	var w models.WorkoutRow
	if err := row.Scan(&w.ID, &w.UserID, &w.StartedAt, &w.EndedAt, &w.SetCount); err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	detail := &WorkoutDetail{WorkoutRow: w}

	setRows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise, set_number, reps, weight, unit, captured_at, workout_id
		 FROM logged_sets
		 WHERE workout_id = $1 AND user_id = $2
		 ORDER BY captured_at ASC, set_number ASC`,
		workoutID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer setRows.Close()

	detail.Sets, err = scanLoggedSetRows(setRows)
	return detail, err
}
