package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/ingest/quick"
	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

// stubSource records LogLine calls and returns canned values for everything
// else.
type stubSource struct {
	lastUserID     int
	lastText       string
	lastCapturedAt *time.Time
	logResult      *ingest.Result
	logErr         error
}

var _ DataSource = (*stubSource)(nil)

func (s *stubSource) LogLine(_ context.Context, userID int, text string, capturedAt *time.Time) (*ingest.Result, error) {
	s.lastUserID = userID
	s.lastText = text
	s.lastCapturedAt = capturedAt
	if s.logErr != nil {
		return nil, s.logErr
	}
	if s.logResult != nil {
		return s.logResult, nil
	}
	return &ingest.Result{Status: ingest.StatusLogged}, nil
}

func (s *stubSource) PendingSets(context.Context, int) ([]models.LoggedSetRow, error) {
	return nil, nil
}

func (s *stubSource) QuerySets(context.Context, time.Time, time.Time, int, string) ([]models.LoggedSetRow, error) {
	return nil, nil
}

func (s *stubSource) QueryWorkouts(context.Context, time.Time, time.Time, int) ([]models.WorkoutRow, error) {
	return nil, nil
}

func (s *stubSource) GetWorkout(context.Context, uuid.UUID, int) (*storage.WorkoutDetail, error) {
	return &storage.WorkoutDetail{}, nil
}

func (s *stubSource) ExerciseProgress(context.Context, time.Time, time.Time, int, string) ([]storage.ProgressPoint, error) {
	return nil, nil
}

func (s *stubSource) TrainingVolume(context.Context, time.Time, time.Time, int, string) ([]storage.VolumeBucket, error) {
	return nil, nil
}

func (s *stubSource) GetDataStats(context.Context, int) (*storage.DataStats, error) {
	return &storage.DataStats{}, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestLogEntryTool verifies the tool passes text and the context user ID
// through to the data source.
func TestLogEntryTool(t *testing.T) {
	stub := &stubSource{}
	h := testHandlers(stub)

	ctx := WithUserID(context.Background(), 7)
	result, err := h.logEntry(ctx, toolRequest(map[string]any{"text": "bench 5 x 100"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	if stub.lastUserID != 7 {
		t.Errorf("userID = %d, want 7", stub.lastUserID)
	}
	if stub.lastText != "bench 5 x 100" {
		t.Errorf("text = %q, want %q", stub.lastText, "bench 5 x 100")
	}
	if stub.lastCapturedAt != nil {
		t.Errorf("capturedAt = %v, want nil", stub.lastCapturedAt)
	}
}

// TestLogEntryToolCapturedAt verifies the optional timestamp is parsed and
// forwarded.
func TestLogEntryToolCapturedAt(t *testing.T) {
	stub := &stubSource{}
	h := testHandlers(stub)

	result, err := h.logEntry(context.Background(), toolRequest(map[string]any{
		"text":        "squat 5 x 120",
		"captured_at": "2026-02-01",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	if stub.lastCapturedAt == nil {
		t.Fatal("capturedAt = nil, want parsed time")
	}
	if got := stub.lastCapturedAt.Format("2006-01-02"); got != "2026-02-01" {
		t.Errorf("capturedAt = %s, want 2026-02-01", got)
	}
}

// TestLogEntryToolMissingText verifies a tool error when text is absent.
func TestLogEntryToolMissingText(t *testing.T) {
	h := testHandlers(&stubSource{})

	result, err := h.logEntry(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing text")
	}
}

// TestLogEntryToolMalformed verifies malformed entries surface as tool
// errors, not protocol errors.
func TestLogEntryToolMalformed(t *testing.T) {
	stub := &stubSource{logErr: quick.ErrMalformedEntry}
	h := testHandlers(stub)

	result, err := h.logEntry(context.Background(), toolRequest(map[string]any{"text": "bench 99999999999999999999 x 100"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for malformed entry")
	}
}

// TestEndWorkoutTool verifies the tool routes through the same command path
// as the logged line.
func TestEndWorkoutTool(t *testing.T) {
	stub := &stubSource{logResult: &ingest.Result{Status: ingest.StatusWorkoutEnded}}
	h := testHandlers(stub)

	result, err := h.endWorkout(WithUserID(context.Background(), 3), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	if stub.lastText != "end workout" {
		t.Errorf("text = %q, want %q", stub.lastText, "end workout")
	}
	if stub.lastUserID != 3 {
		t.Errorf("userID = %d, want 3", stub.lastUserID)
	}
}

// TestGetWorkoutSetsToolBadID verifies invalid UUIDs are rejected before
// hitting the data source.
func TestGetWorkoutSetsToolBadID(t *testing.T) {
	h := testHandlers(&stubSource{})

	result, err := h.getWorkoutSets(context.Background(), toolRequest(map[string]any{"workout_id": "not-a-uuid"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for invalid workout_id")
	}
}
