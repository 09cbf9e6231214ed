package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	quick  *ingest.Provider
	log    *slog.Logger
	apiKey string
	router chi.Router
	feed   *entryFeed
}

// New creates a new Server with all routes configured. The identity
// middleware resolves the requesting user; nil means DevIdentity.
func New(db *storage.DB, quickProvider *ingest.Provider, apiKey string, log *slog.Logger, identity func(http.Handler) http.Handler) *Server {
	s := &Server{
		db:     db,
		quick:  quickProvider,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
		feed:   newEntryFeed(),
	}
	if identity == nil {
		identity = DevIdentity
	}
	s.routes(identity)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(identity func(http.Handler) http.Handler) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(identity)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/log", s.handleLog)
		r.Post("/api/v1/workouts/end", s.handleEndWorkout)
	})

	// Query endpoints (no API key, identity middleware handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/sets", s.handleQuerySets)
	s.router.Get("/api/v1/sets/pending", s.handlePendingSets)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/stats/progress", s.handleProgress)
	s.router.Get("/api/v1/stats/volume", s.handleVolume)
	s.router.Get("/api/v1/entries", s.handleEntryLogs)
	s.router.Get("/api/v1/events", s.handleEvents)
	s.router.Get("/api/v1/me", s.handleMe)
}
