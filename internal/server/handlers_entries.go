package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/storage"
)

func (s *Server) handleEntryLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.QueryEntryLogs(r.Context(), uid, limit, r.URL.Query().Get("status"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// logEntry records one quick-entry line's outcome to the entry_logs table.
func (s *Server) logEntry(uid int, text string, result *ingest.Result, logErr error, durationMs int) {
	entry := storage.EntryLog{
		UserID:     uid,
		RawText:    text,
		DurationMs: &durationMs,
	}
	if logErr != nil {
		entry.Status = "error"
		msg := logErr.Error()
		entry.ErrorMessage = &msg
	} else {
		entry.Status = result.Status
		entry.SetsLogged = result.SetsLogged
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.db.InsertEntryLog(ctx, entry); err != nil {
		s.log.Error("failed to log entry", "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for async logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
