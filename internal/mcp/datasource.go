package mcp

import (
	"context"
	"time"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (direct
// database access) and HTTPClient (remote via REST API) both satisfy this
// interface.
type DataSource interface {
	LogLine(ctx context.Context, userID int, text string, capturedAt *time.Time) (*ingest.Result, error)
	PendingSets(ctx context.Context, userID int) ([]models.LoggedSetRow, error)
	QuerySets(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.LoggedSetRow, error)
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*storage.WorkoutDetail, error)
	ExerciseProgress(ctx context.Context, start, end time.Time, userID int, exercise string) ([]storage.ProgressPoint, error)
	TrainingVolume(ctx context.Context, start, end time.Time, userID int, bucket string) ([]storage.VolumeBucket, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// LocalSource serves MCP tools straight from the database. Log lines go
// through the ingest provider so commands and recognizer behavior match the
// HTTP path exactly.
type LocalSource struct {
	DB       *storage.DB
	Provider *ingest.Provider
}

// Compile-time check: *LocalSource satisfies DataSource.
var _ DataSource = (*LocalSource)(nil)

func (s *LocalSource) LogLine(ctx context.Context, userID int, text string, capturedAt *time.Time) (*ingest.Result, error) {
	return s.Provider.Log(ctx, userID, text, capturedAt)
}

func (s *LocalSource) PendingSets(ctx context.Context, userID int) ([]models.LoggedSetRow, error) {
	return s.DB.PendingSets(ctx, userID)
}

func (s *LocalSource) QuerySets(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.LoggedSetRow, error) {
	return s.DB.QuerySets(ctx, start, end, userID, exerciseFilter)
}

func (s *LocalSource) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	return s.DB.QueryWorkouts(ctx, start, end, userID)
}

func (s *LocalSource) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*storage.WorkoutDetail, error) {
	return s.DB.GetWorkout(ctx, workoutID, userID)
}

func (s *LocalSource) ExerciseProgress(ctx context.Context, start, end time.Time, userID int, exercise string) ([]storage.ProgressPoint, error) {
	return s.DB.ExerciseProgress(ctx, start, end, userID, exercise)
}

func (s *LocalSource) TrainingVolume(ctx context.Context, start, end time.Time, userID int, bucket string) ([]storage.VolumeBucket, error) {
	return s.DB.TrainingVolume(ctx, start, end, userID, bucket)
}

func (s *LocalSource) GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error) {
	return s.DB.GetDataStats(ctx, userID)
}
