package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResponse is returned when the model produced no content at all.
var ErrEmptyResponse = errors.New("empty response from model")

// ConnectionError marks transport-level failures reaching the Ollama
// server. These are the only errors worth retrying; domain failures such
// as unusable output are not.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to Ollama at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
