package notify

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHubProgressAndComplete(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.Progress("s1", 30, "working")
	hub.Complete("s1", "plan-1", nil)

	ev := <-events
	if ev.Percent != 30 || ev.Status != "processing" || ev.Message != "working" {
		t.Errorf("Unexpected progress event: %+v", ev)
	}

	ev = <-events
	if ev.Status != "completed" || ev.PlanID != "plan-1" || ev.Percent != 100 {
		t.Errorf("Unexpected completion event: %+v", ev)
	}
}

func TestHubCompleteWithError(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.Complete("s1", "", errors.New("model unreachable"))

	ev := <-events
	if ev.Status != "error" || ev.Error != "model unreachable" {
		t.Errorf("Unexpected error event: %+v", ev)
	}
}

func TestHubSessionIsolation(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.Progress("s2", 50, "other session")

	select {
	case ev := <-events:
		t.Errorf("Should not receive another session's event: %+v", ev)
	default:
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("s1")
	cancel()

	hub.Progress("s1", 10, "after cancel")

	select {
	case ev := <-events:
		t.Errorf("Should not receive after cancel: %+v", ev)
	default:
	}
}

func TestServeSessionStreamsUntilComplete(t *testing.T) {
	hub := NewHub()

	ctx, cancelCtx := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelCtx()

	req := httptest.NewRequest("GET", "/api/events/s1", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeSession(w, req, "s1")
		close(done)
	}()

	// Wait for the subscription to land before broadcasting.
	for i := 0; i < 100; i++ {
		hub.mu.Lock()
		subscribed := len(hub.subs["s1"]) > 0
		hub.mu.Unlock()
		if subscribed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Progress("s1", 40, "halfway")
	hub.Complete("s1", "plan-1", nil)
	<-done

	body := w.Body.String()
	if !strings.Contains(body, `"percent":40`) {
		t.Errorf("Missing progress event in stream: %s", body)
	}
	if !strings.Contains(body, `"status":"completed"`) {
		t.Errorf("Missing completion event in stream: %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Unexpected content type %q", ct)
	}
}
