package planner

import (
	"testing"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func suggestPlan() *models.Plan {
	return &models.Plan{
		ID:   "plan-1",
		Goal: "Ship the thing",
		Tasks: []models.Task{
			{ID: 0, Title: "Research", Status: models.TaskStatusCompleted, Priority: models.PriorityHigh, EstimatedHours: 4},
			{ID: 1, Title: "Design", Status: models.TaskStatusTodo, Priority: models.PriorityHigh, EstimatedHours: 8, Dependencies: []int{0}},
			{ID: 2, Title: "Implement", Status: models.TaskStatusTodo, Priority: models.PriorityHigh, EstimatedHours: 16, Dependencies: []int{1}},
			{ID: 3, Title: "Write docs", Status: models.TaskStatusTodo, Priority: models.PriorityLow, EstimatedHours: 2},
			{ID: 4, Title: "Triage bugs", Status: models.TaskStatusInProgress, Priority: models.PriorityMedium, EstimatedHours: 4},
		},
	}
}

func TestSuggestNextTasks(t *testing.T) {
	suggestions := SuggestNextTasks(suggestPlan())

	// Design is unblocked (dep 0 completed); Implement is blocked on 1;
	// Triage is already in progress; Write docs has no deps.
	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].ID != 1 {
		t.Errorf("Expected Design first (high priority), got task %d", suggestions[0].ID)
	}
	if suggestions[0].Reason != "All dependencies completed" {
		t.Errorf("Unexpected reason: %q", suggestions[0].Reason)
	}
	if suggestions[1].ID != 3 {
		t.Errorf("Expected Write docs second, got task %d", suggestions[1].ID)
	}
	if suggestions[1].Reason != "Ready to start" {
		t.Errorf("Unexpected reason: %q", suggestions[1].Reason)
	}
}

func TestSuggestNextTasks_QuickWinsFirst(t *testing.T) {
	plan := &models.Plan{
		Tasks: []models.Task{
			{ID: 0, Title: "Big", Status: models.TaskStatusTodo, Priority: models.PriorityHigh, EstimatedHours: 12},
			{ID: 1, Title: "Small", Status: models.TaskStatusTodo, Priority: models.PriorityHigh, EstimatedHours: 2},
		},
	}

	suggestions := SuggestNextTasks(plan)
	if len(suggestions) != 2 || suggestions[0].ID != 1 {
		t.Errorf("Expected the smaller task first within the same priority: %+v", suggestions)
	}
}

func TestSuggestNextTasks_CapsAtFive(t *testing.T) {
	plan := &models.Plan{}
	for i := 0; i < 8; i++ {
		plan.Tasks = append(plan.Tasks, models.Task{
			ID: i, Title: "T", Status: models.TaskStatusTodo,
			Priority: models.PriorityMedium, EstimatedHours: 2,
		})
	}

	if got := len(SuggestNextTasks(plan)); got != 5 {
		t.Errorf("Expected 5 suggestions, got %d", got)
	}
}

func TestSuggestNextTasks_AllDone(t *testing.T) {
	plan := &models.Plan{
		Tasks: []models.Task{
			{ID: 0, Status: models.TaskStatusCompleted},
		},
	}
	if got := SuggestNextTasks(plan); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %+v", got)
	}
}
