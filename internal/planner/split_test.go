package planner

import (
	"fmt"
	"testing"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func TestSplitLongTasks_NoSplitNeeded(t *testing.T) {
	tasks := tasksWithHours(8, 16, 24)

	out := SplitLongTasks(tasks)
	if len(out) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(out))
	}
	for i, task := range out {
		if task.ID != i {
			t.Errorf("Task %d has ID %d", i, task.ID)
		}
	}
}

func TestSplitLongTasks_SplitsIntoWorkdayChunks(t *testing.T) {
	tasks := []models.Task{
		{ID: 0, Title: "Build the engine", EstimatedHours: 30,
			Priority: models.PriorityHigh, TaskType: models.TaskTypeImplementation},
	}

	out := SplitLongTasks(tasks)
	if len(out) != 4 {
		t.Fatalf("Expected 4 parts, got %d", len(out))
	}

	wantHours := []float64{8, 8, 8, 6}
	for i, task := range out {
		if task.EstimatedHours != wantHours[i] {
			t.Errorf("Part %d: expected %.1fh, got %.1f", i, wantHours[i], task.EstimatedHours)
		}
		wantTitle := fmt.Sprintf("Build the engine (Part %d of 4)", i+1)
		if task.Title != wantTitle {
			t.Errorf("Part %d: expected title %q, got %q", i, wantTitle, task.Title)
		}
		if task.Priority != models.PriorityHigh {
			t.Errorf("Part %d lost its priority", i)
		}
	}

	// Parts chain linearly.
	if len(out[0].Dependencies) != 0 {
		t.Errorf("First part should keep original deps, got %v", out[0].Dependencies)
	}
	for i := 1; i < 4; i++ {
		if len(out[i].Dependencies) != 1 || out[i].Dependencies[0] != i-1 {
			t.Errorf("Part %d: expected dep on part %d, got %v", i, i-1, out[i].Dependencies)
		}
	}
}

func TestSplitLongTasks_RemapsDownstreamDependencies(t *testing.T) {
	tasks := []models.Task{
		{ID: 0, Title: "Long task", EstimatedHours: 30},
		{ID: 1, Title: "Follow-up", EstimatedHours: 4, Dependencies: []int{0}},
	}

	out := SplitLongTasks(tasks)
	if len(out) != 5 {
		t.Fatalf("Expected 5 tasks (4 parts + follow-up), got %d", len(out))
	}

	followUp := out[4]
	if followUp.Title != "Follow-up" {
		t.Fatalf("Expected follow-up last, got %q", followUp.Title)
	}
	// The dependency points at the final part of the split task.
	if len(followUp.Dependencies) != 1 || followUp.Dependencies[0] != 3 {
		t.Errorf("Expected dep [3], got %v", followUp.Dependencies)
	}
}

func TestSplitLongTasks_ClampsTinyHours(t *testing.T) {
	tasks := tasksWithHours(0.3)

	out := SplitLongTasks(tasks)
	if out[0].EstimatedHours != 1.0 {
		t.Errorf("Expected 1.0h floor, got %.1f", out[0].EstimatedHours)
	}
}

func TestSplitLongTasks_Empty(t *testing.T) {
	if out := SplitLongTasks(nil); out != nil {
		t.Errorf("Expected nil for empty input, got %v", out)
	}
}
