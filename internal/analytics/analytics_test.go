package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())

	assert.Equal(t, 0, s.TotalPlans)
	assert.Equal(t, 0, s.TotalTasks)
	assert.Equal(t, 0.0, s.CompletionRate)
	require.Len(t, s.Insights, 1)
	assert.Contains(t, s.Insights[0], "No data available")
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC) // a Friday
	completedAt := now.Add(-24 * time.Hour)

	plans := []models.Plan{
		{
			ID:        "p1",
			Goal:      "Build a website",
			Timeframe: "2 weeks",
			CreatedAt: now.Add(-48 * time.Hour),
			Tasks: []models.Task{
				{EstimatedHours: 4, Priority: models.PriorityHigh, Status: models.TaskStatusCompleted, CompletedAt: &completedAt},
				{EstimatedHours: 8, Priority: models.PriorityMedium, Status: models.TaskStatusInProgress},
				{EstimatedHours: 2, Priority: models.PriorityLow, Status: models.TaskStatusTodo},
			},
		},
		{
			ID:        "p2",
			Goal:      "Launch app",
			Timeframe: "2 weeks",
			CreatedAt: now.Add(-30 * 24 * time.Hour),
			Tasks: []models.Task{
				{EstimatedHours: 6, Priority: models.PriorityMedium, Status: models.TaskStatusTodo},
			},
		},
	}

	s := Summarize(plans, now)

	assert.Equal(t, 2, s.TotalPlans)
	assert.Equal(t, 4, s.TotalTasks)
	assert.Equal(t, 20.0, s.TotalHours)
	assert.Equal(t, 2.0, s.AvgTasksPerPlan)
	assert.Equal(t, 10.0, s.AvgHoursPerPlan)
	assert.Equal(t, 25.0, s.CompletionRate)
	assert.Equal(t, 1, s.PriorityDistribution["high"])
	assert.Equal(t, 2, s.PriorityDistribution["medium"])
	assert.Equal(t, 1, s.StatusDistribution["completed"])
	assert.Equal(t, 1, s.StatusDistribution["in_progress"])
	assert.Equal(t, 2, s.PopularTimeframes["2 weeks"])

	// Only p1 was created within the last week
	assert.Equal(t, 1, s.Productivity.PlansThisWeek)
	assert.Equal(t, 1, s.Productivity.TasksCompletedThisWeek)
	assert.Equal(t, 24.0, s.Productivity.AvgCompletionHours)

	// Recent activity is newest first
	require.Len(t, s.RecentActivity, 2)
	assert.Equal(t, "p1", s.RecentActivity[0].ID)
	assert.Equal(t, 1, s.RecentActivity[0].CompletedTasks)

	assert.NotEmpty(t, s.Insights)
	assert.LessOrEqual(t, len(s.Insights), 5)
}

func TestSummarizeRecentActivityLimit(t *testing.T) {
	now := time.Now()
	var plans []models.Plan
	for i := 0; i < 15; i++ {
		plans = append(plans, models.Plan{
			ID:        "p",
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
			Tasks:     []models.Task{{EstimatedHours: 1}},
		})
	}

	s := Summarize(plans, now)
	assert.Len(t, s.RecentActivity, 10)
}

func TestSummarizePlan(t *testing.T) {
	actual := 5.0
	plan := &models.Plan{
		ID:   "p1",
		Goal: "Build a website",
		Tasks: []models.Task{
			{EstimatedHours: 4, Priority: models.PriorityHigh, Status: models.TaskStatusCompleted},
			{EstimatedHours: 8, Priority: models.PriorityMedium, Status: models.TaskStatusInProgress, ActualHours: &actual},
			{EstimatedHours: 2, Priority: models.PriorityMedium, Status: models.TaskStatusTodo},
		},
	}

	ps := SummarizePlan(plan)

	assert.Equal(t, "p1", ps.PlanID)
	assert.Equal(t, 3, ps.TotalTasks)
	assert.Equal(t, 1, ps.CompletedTasks)
	assert.Equal(t, 1, ps.InProgressTasks)
	assert.Equal(t, 33.3, ps.CompletionRate)
	assert.Equal(t, 14.0, ps.TotalEstimatedHours)
	assert.Equal(t, 5.0, ps.TotalActualHours)
	assert.Equal(t, 2, ps.PriorityDistribution["medium"])
}

func TestSummarizePlanEmpty(t *testing.T) {
	ps := SummarizePlan(&models.Plan{ID: "p1"})
	assert.Equal(t, 0.0, ps.CompletionRate)
	assert.Equal(t, 0, ps.TotalTasks)
}
