package storage

import (
	"context"
	"fmt"
	"time"
)

// UnitVolume holds total volume for one weight unit. Units are never
// converted into each other, so totals stay grouped per unit as typed.
type UnitVolume struct {
	Unit    string  `json:"unit"`
	Sets    int     `json:"sets"`
	Reps    int     `json:"reps"`
	Tonnage float64 `json:"tonnage"`
}

// ExerciseStat holds summary counts for a single exercise.
type ExerciseStat struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalSets     int64          `json:"total_sets"`
	TotalWorkouts int64          `json:"total_workouts"`
	PendingSets   int64          `json:"pending_sets"`
	EarliestSet   *time.Time     `json:"earliest_set"`
	LatestSet     *time.Time     `json:"latest_set"`
	Volume        []UnitVolume   `json:"volume"`
	TopExercises  []ExerciseStat `json:"top_exercises"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	// Total sets
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM logged_sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	// Total workouts
	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workouts WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	// Pending sets
	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM logged_sets WHERE user_id = $1 AND workout_id IS NULL`, userID,
	).Scan(&stats.PendingSets)
	if err != nil {
		return nil, fmt.Errorf("counting pending sets: %w", err)
	}

	// Date range
	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(captured_at), MAX(captured_at) FROM logged_sets WHERE user_id = $1`,
		userID,
	).Scan(&stats.EarliestSet, &stats.LatestSet)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	// Volume per unit
	volRows, err := db.Pool.Query(ctx,
		`SELECT unit, COUNT(*)::int, COALESCE(SUM(reps), 0)::int, COALESCE(SUM(weight * reps), 0)
		 FROM logged_sets
		 WHERE user_id = $1
		 GROUP BY unit
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying volume by unit: %w", err)
	}
	defer volRows.Close()

	for volRows.Next() {
		var v UnitVolume
		if err := volRows.Scan(&v.Unit, &v.Sets, &v.Reps, &v.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning unit volume: %w", err)
		}
		stats.Volume = append(stats.Volume, v)
	}
	if err := volRows.Err(); err != nil {
		return nil, err
	}

	// Most logged exercises
	exRows, err := db.Pool.Query(ctx,
		`SELECT exercise, COUNT(*)::int, COALESCE(SUM(reps), 0)::int
		 FROM logged_sets
		 WHERE user_id = $1
		 GROUP BY exercise
		 ORDER BY COUNT(*) DESC
		 LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying top exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var e ExerciseStat
		if err := exRows.Scan(&e.Name, &e.Sets, &e.Reps); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// ProgressPoint holds one day's data for a specific exercise. Days where
// the exercise was logged in more than one unit produce one point per unit.
type ProgressPoint struct {
	Date      string  `json:"date"`
	Unit      string  `json:"unit"`
	MaxWeight float64 `json:"max_weight"`
	Tonnage   float64 `json:"tonnage"`
	Sets      int     `json:"sets"`
	TotalReps int     `json:"total_reps"`
}

// ExerciseProgress returns per-day progression for exercises matching a
// case-insensitive substring filter.
func (db *DB) ExerciseProgress(ctx context.Context, start, end time.Time, userID int, exercise string) ([]ProgressPoint, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT captured_at::date, unit,
		        COALESCE(MAX(weight), 0),
		        COALESCE(SUM(weight * reps), 0),
		        COUNT(*)::int,
		        COALESCE(SUM(reps), 0)::int
		 FROM logged_sets
		 WHERE captured_at >= $1 AND captured_at < $2
		   AND user_id = $3
		   AND exercise ILIKE '%' || $4 || '%'
		 GROUP BY captured_at::date, unit
		 ORDER BY captured_at::date ASC`,
		start, end, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying exercise progress: %w", err)
	}
	defer rows.Close()

	var result []ProgressPoint
	for rows.Next() {
		var p ProgressPoint
		var d time.Time
		if err := rows.Scan(&d, &p.Unit, &p.MaxWeight, &p.Tonnage, &p.Sets, &p.TotalReps); err != nil {
			return nil, fmt.Errorf("scanning progress point: %w", err)
		}
		p.Date = d.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}

// VolumeBucket holds training volume for one period and unit.
type VolumeBucket struct {
	Period  string  `json:"period"`
	Unit    string  `json:"unit"`
	Sets    int     `json:"sets"`
	Reps    int     `json:"reps"`
	Tonnage float64 `json:"tonnage"`
}

// TrainingVolume returns per-period training volume grouped by unit.
// Bucket must be one of day, week or month; callers validate it before
// it reaches the query.
func (db *DB) TrainingVolume(ctx context.Context, start, end time.Time, userID int, bucket string) ([]VolumeBucket, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($4, captured_at), unit,
		        COUNT(*)::int,
		        COALESCE(SUM(reps), 0)::int,
		        COALESCE(SUM(weight * reps), 0)
		 FROM logged_sets
		 WHERE captured_at >= $1 AND captured_at < $2 AND user_id = $3
		 GROUP BY date_trunc($4, captured_at), unit
		 ORDER BY date_trunc($4, captured_at) ASC`,
		start, end, userID, bucket)
	if err != nil {
		return nil, fmt.Errorf("querying training volume: %w", err)
	}
	defer rows.Close()

	var result []VolumeBucket
	for rows.Next() {
		var v VolumeBucket
		var period time.Time
		if err := rows.Scan(&period, &v.Unit, &v.Sets, &v.Reps, &v.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning volume bucket: %w", err)
		}
		v.Period = period.Format("2006-01-02")
		result = append(result, v)
	}
	return result, rows.Err()
}
