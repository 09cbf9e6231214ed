package models

import (
	"time"

	"github.com/google/uuid"
)

// LoggedSetRow is a row ready for insertion into the logged_sets table.
// One quick-entry line with three rep counts becomes three rows sharing
// Exercise, Weight, Unit and CapturedAt, numbered by SetNumber. WorkoutID
// stays nil until an end-workout command claims the row.
type LoggedSetRow struct {
	ID         int64
	UserID     int
	Exercise   string
	SetNumber  int
	Reps       int
	Weight     float64
	Unit       string
	CapturedAt time.Time
	WorkoutID  *uuid.UUID
}

// WorkoutRow is a row ready for insertion into the workouts table. A
// workout exists only once an end-workout command has grouped pending
// sets; StartedAt and EndedAt come from the earliest and latest CapturedAt
// of the grouped rows.
type WorkoutRow struct {
	ID        uuid.UUID
	UserID    int
	StartedAt time.Time
	EndedAt   time.Time
	SetCount  int
}
