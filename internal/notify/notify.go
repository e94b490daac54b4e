// Package notify delivers advisory progress updates from long-running
// plan synthesis to interested listeners. Notifications are best-effort:
// a slow or absent listener never blocks or fails the pipeline.
package notify

// Notifier receives progress events for a synthesis session.
type Notifier interface {
	// Progress reports an advisory step. percent is 0-100.
	Progress(sessionID string, percent int, message string)
	// Complete reports the end of a session, with the stored plan ID on
	// success or err on failure.
	Complete(sessionID string, planID string, err error)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Progress(string, int, string)   {}
func (Nop) Complete(string, string, error) {}
