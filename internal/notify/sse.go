package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Event is one progress update pushed to SSE subscribers.
type Event struct {
	SessionID string `json:"session_id"`
	Percent   int    `json:"percent"`
	Message   string `json:"message"`
	Status    string `json:"status"` // processing, completed, error
	PlanID    string `json:"plan_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Hub fans progress events out to Server-Sent-Events subscribers keyed by
// session ID. It implements Notifier; events for sessions nobody watches
// are dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for one session. The returned cancel
// function must be called when the listener goes away.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) broadcast(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up; drop rather than block.
		}
	}
}

func (h *Hub) Progress(sessionID string, percent int, message string) {
	h.broadcast(sessionID, Event{
		SessionID: sessionID,
		Percent:   percent,
		Message:   message,
		Status:    "processing",
	})
}

func (h *Hub) Complete(sessionID string, planID string, err error) {
	ev := Event{SessionID: sessionID, Percent: 100, Status: "completed", PlanID: planID}
	if err != nil {
		ev.Percent = 0
		ev.Status = "error"
		ev.Error = err.Error()
	}
	h.broadcast(sessionID, ev)
}

// ServeSession streams a session's events to w as Server-Sent Events until
// the client disconnects.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.Subscribe(sessionID)
	defer cancel()

	flusher.Flush()
	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			if ev.Status == "completed" || ev.Status == "error" {
				return
			}
		}
	}
}
