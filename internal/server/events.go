package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// entryEvent is an SSE message delivered to feed subscribers.
type entryEvent struct {
	UserID int
	Event  string
	Data   string
}

// entryFeed fans logged-entry events out to SSE subscribers. Each
// subscriber sees only its own user's entries.
type entryFeed struct {
	mu   sync.Mutex
	subs map[chan entryEvent]int // channel -> subscribed user ID
}

func newEntryFeed() *entryFeed {
	return &entryFeed{subs: make(map[chan entryEvent]int)}
}

func (f *entryFeed) subscribe(userID int) chan entryEvent {
	ch := make(chan entryEvent, 32)
	f.mu.Lock()
	f.subs[ch] = userID
	f.mu.Unlock()
	return ch
}

func (f *entryFeed) unsubscribe(ch chan entryEvent) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

func (f *entryFeed) broadcast(event entryEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch, uid := range f.subs {
		if uid != event.UserID {
			continue
		}
		select {
		case ch <- event:
		default:
			// slow subscriber, skip
		}
	}
}

// handleEvents streams the requesting user's entry outcomes as SSE.
// Watch-mode clients use this to mirror entries logged from other devices.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.feed.subscribe(uid)
	defer s.feed.unsubscribe(ch)

	fmt.Fprintf(w, "event: hello\ndata: %s\n\n", mustJSON(map[string]any{"user_id": uid}))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data)
			flusher.Flush()
		}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
