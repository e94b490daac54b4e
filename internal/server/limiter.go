package server

import (
	"sync"
	"time"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 10
)

// rateLimiter is a sliding-window per-client limiter for plan generation.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string][]time.Time
	now     func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		window:  window,
		limit:   limit,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// allow reports whether the client may make another request, recording it
// if so.
func (l *rateLimiter) allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.clients[clientID][:0]
	for _, t := range l.clients[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.clients[clientID] = recent
		return false
	}

	l.clients[clientID] = append(recent, now)
	return true
}
