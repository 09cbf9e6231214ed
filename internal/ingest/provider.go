package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/replog/internal/ingest/quick"
	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/storage"
)

// Provider turns quick-entry lines into stored rows. It lives outside the
// quick package so that clients embedding the recognizer chain (the CLI)
// do not pull in the storage stack.
type Provider struct {
	db         *storage.DB
	dispatcher *quick.Dispatcher
	log        *slog.Logger
}

// NewProvider creates a quick-entry ingest provider with the default
// recognizer chain.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, dispatcher: quick.New(), log: log}
}

// Log parses one quick-entry line for a user and applies its outcome.
// capturedAt overrides the entry timestamp for lines typed earlier than
// they arrive, as with an offline journal replaying; nil means now.
func (p *Provider) Log(ctx context.Context, userID int, text string, capturedAt *time.Time) (*Result, error) {
	out, err := p.dispatcher.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing entry: %w", err)
	}

	switch entry := out.(type) {
	case quick.SetEntry:
		if capturedAt != nil {
			entry.CapturedAt = *capturedAt
		}
		inserted, err := p.db.InsertLoggedSets(ctx, rowsFromEntry(userID, entry))
		if err != nil {
			return nil, fmt.Errorf("inserting sets: %w", err)
		}
		p.log.Info("sets logged",
			"user", userID, "exercise", entry.Exercise, "sets", inserted)
		return &Result{
			Status:     StatusLogged,
			Exercise:   entry.Exercise,
			SetsLogged: int(inserted),
			Reps:       entry.Reps,
			Weight:     entry.Weight,
			Unit:       string(entry.Unit),
		}, nil

	case quick.CommandEntry:
		if entry.Action != quick.ActionEndWorkout {
			return nil, fmt.Errorf("unknown command action %q", entry.Action)
		}
		workout, err := p.db.FinalizeWorkout(ctx, userID)
		if errors.Is(err, storage.ErrNoPendingSets) {
			return &Result{
				Status:  StatusNoOpenWorkout,
				Message: "no pending sets to close",
			}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ending workout: %w", err)
		}
		p.log.Info("workout ended",
			"user", userID, "workout", workout.ID, "sets", workout.SetCount)
		return &Result{
			Status:      StatusWorkoutEnded,
			WorkoutID:   &workout.ID,
			WorkoutSets: workout.SetCount,
		}, nil

	case quick.NoMatch:
		p.log.Debug("unrecognized entry", "user", userID, "text", text)
		return &Result{
			Status:  StatusNoMatch,
			Message: fmt.Sprintf("could not understand %q", text),
		}, nil
	}

	return nil, fmt.Errorf("unhandled outcome %T", out)
}

// rowsFromEntry explodes one parsed line into per-set rows. Three rep
// counts become three rows numbered from 1, sharing everything else.
func rowsFromEntry(userID int, entry quick.SetEntry) []models.LoggedSetRow {
	rows := make([]models.LoggedSetRow, 0, len(entry.Reps))
	for i, reps := range entry.Reps {
		rows = append(rows, models.LoggedSetRow{
			UserID:     userID,
			Exercise:   entry.Exercise,
			SetNumber:  i + 1,
			Reps:       reps,
			Weight:     entry.Weight,
			Unit:       string(entry.Unit),
			CapturedAt: entry.CapturedAt,
		})
	}
	return rows
}
