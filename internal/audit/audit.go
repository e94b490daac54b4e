// Package audit records plan synthesis attempts for traceability.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/store"
)

// Recorder writes generation log entries for synthesis attempts.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new generation log recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record writes a log entry for one synthesis attempt. A failed attempt
// has an empty planID.
func (r *Recorder) Record(planID string, inputs interface{}, prompt, response string, tokensUsed int, duration time.Duration, outcome string) error {
	return r.store.LogGeneration(&models.GenerationLog{
		PlanID:     planID,
		InputsHash: HashInputs(inputs),
		Prompt:     prompt,
		Response:   response,
		TokensUsed: tokensUsed,
		DurationMS: duration.Milliseconds(),
		Outcome:    outcome,
	})
}

// Recent returns the most recent generation log entries.
func (r *Recorder) Recent(limit int) ([]models.GenerationLog, error) {
	return r.store.ListGenerationLogs(limit)
}

// HashInputs creates a SHA256 hash of the inputs for reproducibility.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
