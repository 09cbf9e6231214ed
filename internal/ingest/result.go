package ingest

import "github.com/google/uuid"

// Statuses a quick-entry line can resolve to. NoMatch and NoOpenWorkout
// are soft outcomes: the line was understood well enough to answer, but
// nothing was written.
const (
	StatusLogged        = "logged"
	StatusWorkoutEnded  = "workout_ended"
	StatusNoMatch       = "no_match"
	StatusNoOpenWorkout = "no_open_workout"
)

// Result holds the outcome of ingesting one quick-entry line.
type Result struct {
	Status string `json:"status"`

	Exercise   string  `json:"exercise,omitempty"`
	SetsLogged int     `json:"sets_logged,omitempty"`
	Reps       []int   `json:"reps,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	Unit       string  `json:"unit,omitempty"`

	WorkoutID   *uuid.UUID `json:"workout_id,omitempty"`
	WorkoutSets int        `json:"workout_sets,omitempty"`

	Message string `json:"message,omitempty"`
}
