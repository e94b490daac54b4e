package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the taskflow API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// ListPlans fetches plan summaries from the API
func (c *Client) ListPlans() ([]PlanItem, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/plans")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var plans []models.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plans); err != nil {
		return nil, err
	}

	items := make([]PlanItem, len(plans))
	for i, p := range plans {
		completed := 0
		for _, t := range p.Tasks {
			if t.Status == models.TaskStatusCompleted {
				completed++
			}
		}
		items[i] = PlanItem{
			ID:         p.ID,
			Goal:       p.Goal,
			Timeframe:  p.Timeframe,
			TaskCount:  len(p.Tasks),
			Completed:  completed,
			TotalHours: p.TotalHours(),
			CreatedAt:  p.CreatedAt.Format("2006-01-02"),
		}
	}
	return items, nil
}

// GetPlanTasks fetches a plan's tasks
func (c *Client) GetPlanTasks(planID string) ([]TaskRow, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/plans/" + planID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var plan models.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, err
	}

	rows := make([]TaskRow, len(plan.Tasks))
	for i, t := range plan.Tasks {
		row := TaskRow{
			ID:             t.ID,
			Title:          t.Title,
			Description:    t.Description,
			Status:         string(t.Status),
			Priority:       string(t.Priority),
			TaskType:       string(t.TaskType),
			EstimatedHours: t.EstimatedHours,
			Dependencies:   t.Dependencies,
			Notes:          t.Notes,
		}
		if t.StartTime != nil {
			row.Start = t.StartTime.Format("Mon Jan 2 15:04")
		}
		if t.Deadline != nil {
			row.Deadline = t.Deadline.Format("Mon Jan 2 15:04")
		}
		rows[i] = row
	}
	return rows, nil
}

// SetTaskStatus updates one task's status
func (c *Client) SetTaskStatus(planID string, taskID int, status string) error {
	body := map[string]string{"status": status}
	_, err := c.patch(fmt.Sprintf("/api/plans/%s/tasks/%d/status", planID, taskID), body)
	return err
}

// DeletePlan removes a plan
func (c *Client) DeletePlan(planID string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/plans/"+planID, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s", string(body))
	}
	return nil
}

// GetSuggestions fetches next-task suggestions for a plan
func (c *Client) GetSuggestions(planID string) ([]SuggestionItem, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/plans/" + planID + "/suggestions")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var items []SuggestionItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// GeneratePlan requests a new plan synthesis. Synthesis goes through the
// model, so this uses its own long-timeout client.
func (c *Client) GeneratePlan(goal, timeframe string) (string, error) {
	body := map[string]string{"goal": goal, "timeframe": timeframe}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	slow := &http.Client{Timeout: 5 * time.Minute}
	resp, err := slow.Post(c.baseURL+"/api/plans", "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error: %s", string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.ID, nil
}

// CheckHealth checks if the daemon is healthy
func (c *Client) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (c *Client) patch(path string, data interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPatch, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	return body, nil
}
