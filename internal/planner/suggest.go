package planner

import (
	"sort"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// Suggestion is one "start this next" recommendation over a stored plan.
type Suggestion struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Priority       models.Priority `json:"priority"`
	EstimatedHours float64         `json:"estimated_hours"`
	Deadline       string          `json:"deadline,omitempty"`
	Reason         string          `json:"reason"`
	Dependencies   []int           `json:"dependencies"`
}

var priorityRank = map[models.Priority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

// SuggestNextTasks returns up to five tasks whose dependencies are all
// completed, ordered by priority then by size so quick wins surface first.
func SuggestNextTasks(plan *models.Plan) []Suggestion {
	completed := make(map[int]bool)
	for _, t := range plan.Tasks {
		if t.Status == models.TaskStatusCompleted {
			completed[t.ID] = true
		}
	}

	var available []Suggestion
	for _, t := range plan.Tasks {
		if t.Status == models.TaskStatusCompleted || t.Status == models.TaskStatusInProgress {
			continue
		}
		ready := true
		for _, dep := range t.Dependencies {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}

		reason := "Ready to start"
		if len(t.Dependencies) > 0 {
			reason = "All dependencies completed"
		}
		s := Suggestion{
			ID:             t.ID,
			Title:          t.Title,
			Description:    t.Description,
			Priority:       t.Priority,
			EstimatedHours: t.EstimatedHours,
			Reason:         reason,
			Dependencies:   t.Dependencies,
		}
		if t.Deadline != nil {
			s.Deadline = t.Deadline.Format("2006-01-02T15:04:05")
		}
		available = append(available, s)
	}

	sort.SliceStable(available, func(i, j int) bool {
		if priorityRank[available[i].Priority] != priorityRank[available[j].Priority] {
			return priorityRank[available[i].Priority] < priorityRank[available[j].Priority]
		}
		return available[i].EstimatedHours < available[j].EstimatedHours
	})

	if len(available) > 5 {
		available = available[:5]
	}
	return available
}
