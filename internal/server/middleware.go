package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/logger"
)

// statusRecorder captures the response status for metrics and stamps the
// processing time header before headers are flushed.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	start       time.Time
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
	r.Header().Set("X-Process-Time", fmt.Sprintf("%.4f", time.Since(r.start).Seconds()))
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps SSE streaming working through the middleware wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// monitor records duration and status per endpoint and sets X-Process-Time.
func (s *Server) monitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK, start: start}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		endpoint := r.Method + " " + normalizePath(r.URL.Path)
		s.service.metrics.RecordRequest(endpoint, duration, rec.status)

		if rec.status >= 400 {
			logger.Warn("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, duration)
		} else {
			logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, duration)
		}
	})
}

// normalizePath collapses resource IDs so endpoint stats stay bounded.
func normalizePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		switch {
		case i > 0 && parts[i-1] == "plans" && p != "":
			parts[i] = ":id"
		case i > 0 && (parts[i-1] == "tasks" || parts[i-1] == "comments" || parts[i-1] == "events") && p != "":
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}
