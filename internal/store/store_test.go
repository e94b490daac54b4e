package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestPlanCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	plan := newTestPlan("Build a website", "2 weeks")

	// Save
	if err := s.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	// Get
	got, err := s.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected plan, got nil")
	}
	if got.Goal != "Build a website" {
		t.Errorf("Expected goal 'Build a website', got %s", got.Goal)
	}
	if len(got.Tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(got.Tasks))
	}
	if got.Tasks[1].Dependencies[0] != 0 {
		t.Errorf("Task dependencies not round-tripped: %v", got.Tasks[1].Dependencies)
	}

	// List
	plans, err := s.ListPlans()
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("Expected 1 plan, got %d", len(plans))
	}

	// Update
	got.Tasks[0].Status = models.TaskStatusCompleted
	got.Goal = "Build a bigger website"
	if err := s.UpdatePlan(got); err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}

	updated, _ := s.GetPlan(plan.ID)
	if updated.Goal != "Build a bigger website" {
		t.Errorf("Goal not updated, got %s", updated.Goal)
	}
	if updated.Tasks[0].Status != models.TaskStatusCompleted {
		t.Errorf("Task status not persisted, got %s", updated.Tasks[0].Status)
	}

	// Delete
	deleted, err := s.DeletePlan(plan.ID)
	if err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	if !deleted {
		t.Error("Expected plan to be deleted")
	}

	got, err = s.GetPlan(plan.ID)
	if err != nil {
		t.Fatalf("GetPlan after delete failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil plan after delete")
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	got, err := s.GetPlan("non-existent-id")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for non-existent plan")
	}
}

func TestDeletePlan_NotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	deleted, err := s.DeletePlan("non-existent-id")
	if err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	if deleted {
		t.Error("Expected no deletion for non-existent plan")
	}
}

func TestComments(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	plan := newTestPlan("Test goal", "1 week")
	if err := s.SavePlan(plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	// Add
	comment, err := s.AddComment(plan.ID, 0, "alice", "This needs more detail")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID == "" {
		t.Error("Comment ID should not be empty")
	}

	// Second comment on a different task
	if _, err := s.AddComment(plan.ID, 1, "bob", "Looks good"); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	// List is scoped to one task
	comments, err := s.ListComments(plan.ID, 0)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment, got %d", len(comments))
	}
	if comments[0].Author != "alice" {
		t.Errorf("Expected author alice, got %s", comments[0].Author)
	}

	// Delete
	deleted, err := s.DeleteComment(comment.ID)
	if err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if !deleted {
		t.Error("Expected comment to be deleted")
	}

	comments, _ = s.ListComments(plan.ID, 0)
	if len(comments) != 0 {
		t.Errorf("Expected 0 comments after delete, got %d", len(comments))
	}
}

func TestDeletePlan_RemovesComments(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	plan := newTestPlan("Test goal", "1 week")
	s.SavePlan(plan)
	s.AddComment(plan.ID, 0, "alice", "comment")

	if _, err := s.DeletePlan(plan.ID); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	comments, err := s.ListComments(plan.ID, 0)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected comments removed with plan, got %d", len(comments))
	}
}

func TestGenerationLogs(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	entry := &models.GenerationLog{
		PlanID:     "plan-1",
		InputsHash: "abc123",
		Prompt:     "Create a plan",
		Response:   `{"tasks": []}`,
		TokensUsed: 512,
		DurationMS: 1200,
		Outcome:    "success",
	}

	if err := s.LogGeneration(entry); err != nil {
		t.Fatalf("LogGeneration failed: %v", err)
	}
	if entry.ID == "" {
		t.Error("Log ID should be assigned")
	}

	// A failed attempt with no plan
	if err := s.LogGeneration(&models.GenerationLog{
		InputsHash: "def456",
		Prompt:     "Create another plan",
		Outcome:    "fallback",
	}); err != nil {
		t.Fatalf("LogGeneration failed: %v", err)
	}

	logs, err := s.ListGenerationLogs(10)
	if err != nil {
		t.Fatalf("ListGenerationLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("Expected 2 logs, got %d", len(logs))
	}

	logs, err = s.ListGenerationLogs(1)
	if err != nil {
		t.Fatalf("ListGenerationLogs with limit failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected 1 log with limit, got %d", len(logs))
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func newTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func newTestPlan(goal, timeframe string) *models.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Plan{
		ID:        uuid.New().String(),
		Goal:      goal,
		Timeframe: timeframe,
		StartDate: now,
		Tasks: []models.Task{
			{
				ID:             0,
				Title:          "Research requirements",
				EstimatedHours: 4,
				Priority:       models.PriorityHigh,
				TaskType:       models.TaskTypeResearch,
				Complexity:     models.ComplexitySimple,
				Status:         models.TaskStatusTodo,
			},
			{
				ID:             1,
				Title:          "Build prototype",
				EstimatedHours: 8,
				Priority:       models.PriorityMedium,
				TaskType:       models.TaskTypeImplementation,
				Complexity:     models.ComplexityModerate,
				Dependencies:   []int{0},
				Status:         models.TaskStatusTodo,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
