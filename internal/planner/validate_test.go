package planner

import (
	"testing"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func TestValidateTasks_Defaults(t *testing.T) {
	tasks := ValidateTasks([]rawTask{
		{Title: "  ", Description: "", Priority: "urgent", TaskType: "nonsense", Complexity: "impossible"},
	})
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}

	task := tasks[0]
	if task.Title != "Task 1" {
		t.Errorf("Expected default title, got %q", task.Title)
	}
	if task.Description != "No description provided" {
		t.Errorf("Expected default description, got %q", task.Description)
	}
	if task.EstimatedHours != defaultTaskHours {
		t.Errorf("Expected default hours %.1f, got %.1f", defaultTaskHours, task.EstimatedHours)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Expected medium priority, got %q", task.Priority)
	}
	if task.Status != models.TaskStatusTodo {
		t.Errorf("Expected todo status, got %q", task.Status)
	}
	// "nonsense"/"impossible" are not valid enums, so both get auto-classified
	if !models.ValidTaskType(task.TaskType) {
		t.Errorf("Task type not normalized: %q", task.TaskType)
	}
	if !models.ValidComplexity(task.Complexity) {
		t.Errorf("Complexity not normalized: %q", task.Complexity)
	}
}

func TestValidateTasks_HourCoercion(t *testing.T) {
	tests := []struct {
		name  string
		hours any
		want  float64
	}{
		{"float", 6.0, 6.0},
		{"string float", "4.5", 4.5},
		{"string garbage", "a lot", defaultTaskHours},
		{"negative", -2.0, defaultTaskHours},
		{"zero", 0.0, defaultTaskHours},
		{"missing", nil, defaultTaskHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := ValidateTasks([]rawTask{
				{Title: "A task", EstimatedHours: tt.hours, Priority: "medium", TaskType: "research", Complexity: "simple"},
			})
			if tasks[0].EstimatedHours != tt.want {
				t.Errorf("Expected %.1f hours, got %.1f", tt.want, tasks[0].EstimatedHours)
			}
		})
	}
}

func TestValidateTasks_DependencyFiltering(t *testing.T) {
	tasks := ValidateTasks([]rawTask{
		{Title: "First", Priority: "medium", TaskType: "research", Complexity: "simple"},
		{Title: "Second", Priority: "medium", TaskType: "research", Complexity: "simple"},
		{Title: "Third", Priority: "medium", TaskType: "research", Complexity: "simple",
			Dependencies: []any{0.0, 1.5, -1.0, 2.0, 7.0, "zero"}},
	})

	deps := tasks[2].Dependencies
	// Only integral indices strictly below the task's own index survive.
	if len(deps) != 1 || deps[0] != 0 {
		t.Errorf("Expected deps [0], got %v", deps)
	}
}

func TestValidateTasks_AutoClassification(t *testing.T) {
	tasks := ValidateTasks([]rawTask{
		{Title: "Test the whole system", Description: "QA pass", Priority: "medium"},
		{Title: "Deploy to production", Description: "Ship it", Priority: "medium"},
	})

	if tasks[0].TaskType != models.TaskTypeTesting {
		t.Errorf("Expected testing type, got %q", tasks[0].TaskType)
	}
	if tasks[1].TaskType != models.TaskTypeDeployment {
		t.Errorf("Expected deployment type, got %q", tasks[1].TaskType)
	}
}

func TestValidateTasks_PriorityRebalance(t *testing.T) {
	raw := []rawTask{
		{Title: "Core engine work", Priority: "high", TaskType: "implementation", Complexity: "moderate"},
		{Title: "Auth layer", Priority: "high", TaskType: "implementation", Complexity: "moderate"},
		{Title: "Data model", Priority: "high", TaskType: "implementation", Complexity: "moderate"},
		{Title: "Deploy the service", Priority: "high", TaskType: "deployment", Complexity: "simple"},
		{Title: "Test everything", Priority: "high", TaskType: "testing", Complexity: "simple"},
	}

	tasks := ValidateTasks(raw)

	for i := 0; i < 3; i++ {
		if tasks[i].Priority != models.PriorityHigh {
			t.Errorf("Task %d should stay high, got %q", i, tasks[i].Priority)
		}
	}
	// More than 40% high demotes everything past the first three, and the
	// low-priority floor then demotes the trailing test-flavored task.
	if tasks[3].Priority != models.PriorityMedium {
		t.Errorf("Task 3 should be demoted to medium, got %q", tasks[3].Priority)
	}
	if tasks[4].Priority != models.PriorityLow {
		t.Errorf("Task 4 should be demoted to low, got %q", tasks[4].Priority)
	}
}

func TestDetectTaskType(t *testing.T) {
	tests := []struct {
		title string
		want  models.TaskType
	}{
		{"Research competitor pricing", models.TaskTypeResearch},
		{"Design the schema", models.TaskTypeDesign},
		{"Write the user guide", models.TaskTypeDocumentation},
		{"Completely unclassifiable thing", models.TaskTypeImplementation},
	}
	for _, tt := range tests {
		if got := DetectTaskType(tt.title, ""); got != tt.want {
			t.Errorf("DetectTaskType(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDetectComplexity(t *testing.T) {
	tests := []struct {
		title string
		want  models.Complexity
	}{
		{"Machine learning pipeline", models.ComplexityExpert},
		{"Payment gateway integration", models.ComplexityComplex},
		{"Fix small bug", models.ComplexitySimple},
		{"Something in between", models.ComplexityModerate},
	}
	for _, tt := range tests {
		if got := DetectComplexity(tt.title, ""); got != tt.want {
			t.Errorf("DetectComplexity(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
