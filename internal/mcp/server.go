package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepLog strength training server. Log sets with one-line quick-log entries like \"bench 8, 8, 7 x 100\" (weight defaults to kg), close the open workout with end_workout, and query workouts, sets, and per-unit volume. Weights are never converted between units. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolLogEntry, Handler: h.logEntry},
		server.ServerTool{Tool: toolEndWorkout, Handler: h.endWorkout},
		server.ServerTool{Tool: toolGetPendingSets, Handler: h.getPendingSets},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
		server.ServerTool{Tool: toolGetSets, Handler: h.getSets},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolGetTrainingVolume, Handler: h.getTrainingVolume},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentWorkout, Handler: h.currentWorkout},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resDataStats, Handler: h.dataStats},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentWorkout = mcp.NewResource(
	"replog://current_workout",
	"Current Workout",
	mcp.WithResourceDescription("Pending sets of the workout in progress, oldest first, with per-exercise totals"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"replog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Completed workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resDataStats = mcp.NewResource(
	"replog://stats",
	"Data Stats",
	mcp.WithResourceDescription("Totals, per-unit volume, and most-trained exercises across all logged data"),
	mcp.WithMIMEType("application/json"),
)
