package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Status describes the Ollama server as seen by the health probe.
type Status struct {
	Status          string   `json:"status"` // running, not_running, error
	URL             string   `json:"url"`
	AvailableModels []string `json:"available_models,omitempty"`
	CurrentModel    string   `json:"current_model,omitempty"`
	ModelExists     bool     `json:"model_exists"`
	Error           string   `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckStatus probes the Ollama tags endpoint: whether the server answers
// and whether the configured model is among the downloaded ones. Probe
// failures are reported in the Status, not as an error.
func (c *Client) CheckStatus(ctx context.Context) Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/api/tags", nil)
	if err != nil {
		return Status{Status: "error", URL: c.opts.BaseURL, Error: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{
			Status: "not_running",
			URL:    c.opts.BaseURL,
			Error:  "Ollama is not running. Start it with: ollama serve",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{
			Status: "error",
			URL:    c.opts.BaseURL,
			Error:  fmt.Sprintf("Ollama returned status %d", resp.StatusCode),
		}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return Status{Status: "error", URL: c.opts.BaseURL, Error: err.Error()}
	}

	names := make([]string, 0, len(tags.Models))
	exists := false
	for _, m := range tags.Models {
		names = append(names, m.Name)
		if m.Name == c.opts.Model {
			exists = true
		}
	}
	return Status{
		Status:          "running",
		URL:             c.opts.BaseURL,
		AvailableModels: names,
		CurrentModel:    c.opts.Model,
		ModelExists:     exists,
	}
}
