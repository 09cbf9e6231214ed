package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestLogLine verifies the client posts the line with the API key attached
// and parses the result.
func TestLogLine(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method=%s, want POST", r.Method)
			}
			if got := r.Header.Get("X-API-Key"); got != "test-key" {
				t.Errorf("X-API-Key=%q, want test-key", got)
			}

			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatal(err)
			}
			if got := payload["text"]; got != "bench 8, 8, 7 x 100" {
				t.Errorf("text=%q, want 'bench 8, 8, 7 x 100'", got)
			}
			if _, ok := payload["captured_at"]; ok {
				t.Error("captured_at present, want omitted")
			}

			writeTestJSON(t, w, ingest.Result{
				Status:     ingest.StatusLogged,
				Exercise:   "bench",
				SetsLogged: 3,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	res, err := client.LogLine(context.Background(), 1, "bench 8, 8, 7 x 100", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ingest.StatusLogged {
		t.Errorf("status=%q, want logged", res.Status)
	}
	if res.SetsLogged != 3 {
		t.Errorf("sets_logged=%d, want 3", res.SetsLogged)
	}
}

// TestLogLineCapturedAt verifies the optional timestamp travels as RFC3339.
func TestLogLineCapturedAt(t *testing.T) {
	at := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)

	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatal(err)
			}
			if got := payload["captured_at"]; got != "2026-02-01T18:00:00Z" {
				t.Errorf("captured_at=%q, want 2026-02-01T18:00:00Z", got)
			}
			writeTestJSON(t, w, ingest.Result{Status: ingest.StatusLogged})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	if _, err := client.LogLine(context.Background(), 1, "squat 5 x 120", &at); err != nil {
		t.Fatal(err)
	}
}

// TestLogLineNoMatch verifies a 422 no_match response is returned as a
// regular result, not an error.
func TestLogLineNoMatch(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(ingest.Result{
				Status:  ingest.StatusNoMatch,
				Message: `could not understand "just some text"`,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "test-key")
	res, err := client.LogLine(context.Background(), 1, "just some text", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != ingest.StatusNoMatch {
		t.Errorf("status=%q, want no_match", res.Status)
	}
}

// TestPendingSets verifies the pending sets endpoint returns a flat array.
func TestPendingSets(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets/pending": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, []models.LoggedSetRow{
				{ID: 1, Exercise: "bench", SetNumber: 1, Reps: 8, Weight: 100, Unit: "kg"},
				{ID: 2, Exercise: "bench", SetNumber: 2, Reps: 8, Weight: 100, Unit: "kg"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	sets, err := client.PendingSets(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if sets[0].Exercise != "bench" {
		t.Errorf("exercise=%q, want bench", sets[0].Exercise)
	}
}

// TestQuerySets verifies the client sends the exercise filter and time range.
func TestQuerySets(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "bench" {
				t.Errorf("exercise=%q, want bench", got)
			}
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			writeTestJSON(t, w, []models.LoggedSetRow{
				{ID: 1, Exercise: "bench", Reps: 8, Weight: 100, Unit: "kg"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	sets, err := client.QuerySets(context.Background(), start, end, 1, "bench")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(sets))
	}
}

// TestQueryWorkouts verifies workout list parsing.
func TestQueryWorkouts(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, []models.WorkoutRow{
				{ID: id, UserID: 1, SetCount: 12},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	workouts, err := client.QueryWorkouts(context.Background(), start, end, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 {
		t.Fatalf("got %d workouts, want 1", len(workouts))
	}
	if workouts[0].ID != id {
		t.Errorf("id=%s, want %s", workouts[0].ID, id)
	}
	if workouts[0].SetCount != 12 {
		t.Errorf("set_count=%d, want 12", workouts[0].SetCount)
	}
}

// TestGetWorkout verifies the client hits the per-workout path and parses
// the detail with its sets.
func TestGetWorkout(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts/" + id.String(): func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, storage.WorkoutDetail{
				WorkoutRow: models.WorkoutRow{ID: id, SetCount: 2},
				Sets: []models.LoggedSetRow{
					{ID: 1, Exercise: "squat", SetNumber: 1, Reps: 5, Weight: 120, Unit: "kg"},
					{ID: 2, Exercise: "squat", SetNumber: 2, Reps: 5, Weight: 120, Unit: "kg"},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	detail, err := client.GetWorkout(context.Background(), id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if detail.ID != id {
		t.Errorf("id=%s, want %s", detail.ID, id)
	}
	if len(detail.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(detail.Sets))
	}
}

// TestExerciseProgress verifies the progress endpoint query params and parsing.
func TestExerciseProgress(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats/progress": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "deadlift" {
				t.Errorf("exercise=%q, want deadlift", got)
			}
			writeTestJSON(t, w, []storage.ProgressPoint{
				{Date: "2026-01-05", Unit: "kg", MaxWeight: 140, Sets: 3},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	points, err := client.ExerciseProgress(context.Background(), start, end, 1, "deadlift")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].MaxWeight != 140 {
		t.Errorf("max_weight=%f, want 140", points[0].MaxWeight)
	}
}

// TestTrainingVolume verifies the volume endpoint bucket param and parsing.
func TestTrainingVolume(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats/volume": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("bucket"); got != "week" {
				t.Errorf("bucket=%q, want week", got)
			}
			writeTestJSON(t, w, []storage.VolumeBucket{
				{Period: "2026-01-05", Unit: "kg", Sets: 15, Reps: 120, Tonnage: 9600},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	buckets, err := client.TrainingVolume(context.Background(), start, end, 1, "week")
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if buckets[0].Tonnage != 9600 {
		t.Errorf("tonnage=%f, want 9600", buckets[0].Tonnage)
	}
}

// TestGetDataStats verifies the stats endpoint parsing.
func TestGetDataStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, storage.DataStats{
				TotalSets:     250,
				TotalWorkouts: 30,
				PendingSets:   4,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	stats, err := client.GetDataStats(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSets != 250 {
		t.Errorf("total_sets=%d, want 250", stats.TotalSets)
	}
	if stats.PendingSets != 4 {
		t.Errorf("pending_sets=%d, want 4", stats.PendingSets)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200 responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "")
	_, err := client.GetDataStats(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

// TestLogLineServerError verifies write failures (e.g. bad API key) are
// surfaced as errors.
func TestLogLineServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"invalid API key"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "wrong-key")
	_, err := client.LogLine(context.Background(), 1, "bench 5 x 100", nil)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}
