package quick

import (
	"time"

	"github.com/google/uuid"
)

// Unit is the weight unit captured from a set line. The suffix is stored as
// typed: "lb" and "lbs" stay distinct, and lines without a suffix default to
// kilograms.
type Unit string

const (
	UnitKg  Unit = "kg"
	UnitLb  Unit = "lb"
	UnitLbs Unit = "lbs"
)

// Action identifies a recognized command.
type Action string

// ActionEndWorkout finalizes the open workout session.
const ActionEndWorkout Action = "end_workout"

// Outcome is the result of parsing one line. Exactly one of SetEntry,
// CommandEntry, or NoMatch is returned per parse; callers discriminate with
// a type switch.
type Outcome interface {
	outcome()
}

// SetEntry is one logged exercise line: the same weight lifted for one or
// more sets. Reps holds one count per set in the order performed. WorkoutID
// is nil at parse time; the storage layer assigns it when the workout is
// finalized.
type SetEntry struct {
	Exercise   string
	Reps       []int
	Weight     float64
	Unit       Unit
	CapturedAt time.Time
	WorkoutID  *uuid.UUID
}

// CommandEntry is a recognized command line, e.g. "end workout".
type CommandEntry struct {
	Action Action
}

// NoMatch means no recognizer found structure in the line. It is a normal
// outcome, not an error.
type NoMatch struct{}

func (SetEntry) outcome()     {}
func (CommandEntry) outcome() {}
func (NoMatch) outcome()      {}
