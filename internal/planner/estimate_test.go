package planner

import (
	"testing"

	"github.com/taskflow-ai/taskflow/internal/models"
)

func TestEstimateEffort_SimpleTask(t *testing.T) {
	tasks := []models.Task{
		{Title: "Read papers", Description: "Survey literature", EstimatedHours: 4.0,
			TaskType: models.TaskTypeResearch, Complexity: models.ComplexitySimple},
	}

	EstimateEffort(tasks, nil)

	// 4.0 base, no multipliers, +0.5 research overhead.
	if tasks[0].EstimatedHours != 4.5 {
		t.Errorf("Expected 4.5h, got %.2f", tasks[0].EstimatedHours)
	}
	if tasks[0].BaseHours != 4.0 {
		t.Errorf("Expected base 4.0, got %.2f", tasks[0].BaseHours)
	}
	if tasks[0].OverheadFactors["complexity_multiplier"] != 1.0 {
		t.Errorf("Expected complexity multiplier 1.0, got %v", tasks[0].OverheadFactors)
	}
}

func TestEstimateEffort_Idempotent(t *testing.T) {
	tasks := []models.Task{
		{Title: "Read papers", Description: "Survey literature", EstimatedHours: 4.0,
			TaskType: models.TaskTypeResearch, Complexity: models.ComplexitySimple},
	}

	EstimateEffort(tasks, nil)
	first := tasks[0].EstimatedHours
	EstimateEffort(tasks, nil)

	if tasks[0].EstimatedHours != first {
		t.Errorf("Re-estimation changed hours: %.2f -> %.2f", first, tasks[0].EstimatedHours)
	}
}

func TestEstimateEffort_BeginnerMultiplier(t *testing.T) {
	tasks := []models.Task{
		{Title: "Read papers", Description: "Survey literature", EstimatedHours: 4.0,
			TaskType: models.TaskTypeResearch, Complexity: models.ComplexitySimple},
	}

	EstimateEffort(tasks, &models.Constraints{ExperienceLevel: "beginner"})

	// 4.0 * 1.5 experience + 0.5 research overhead.
	if tasks[0].EstimatedHours != 6.5 {
		t.Errorf("Expected 6.5h, got %.2f", tasks[0].EstimatedHours)
	}
	if tasks[0].OverheadFactors["experience_multiplier"] != 1.5 {
		t.Errorf("Expected experience multiplier 1.5, got %v", tasks[0].OverheadFactors)
	}
}

func TestEstimateEffort_StackFamiliarity(t *testing.T) {
	tasks := []models.Task{
		{Title: "Read papers", Description: "Survey literature", EstimatedHours: 4.0,
			TaskType: models.TaskTypeResearch, Complexity: models.ComplexitySimple},
	}

	EstimateEffort(tasks, &models.Constraints{TechnicalStack: []string{"Python", "React"}})

	if tasks[0].OverheadFactors["technical_stack_multiplier"] != 0.95 {
		t.Errorf("Expected familiar-stack multiplier 0.95, got %v", tasks[0].OverheadFactors)
	}
}

func TestEstimateEffort_DependencyAndKeywordOverhead(t *testing.T) {
	tasks := []models.Task{
		{Title: "Design schema", Description: "Tables", EstimatedHours: 2.0,
			TaskType: models.TaskTypeDesign, Complexity: models.ComplexitySimple},
		{Title: "Build API", Description: "", EstimatedHours: 8.0,
			TaskType: models.TaskTypeImplementation, Complexity: models.ComplexityModerate,
			Dependencies: []int{0}},
	}

	EstimateEffort(tasks, nil)

	// 8.0 * 1.5 complexity = 12.0, +2.0 implementation overhead,
	// +1.0 api keyword, +0.5 build keyword = 15.5, +15% dependency
	// buffer = 17.825, rounded to the half hour.
	if tasks[1].EstimatedHours != 18.0 {
		t.Errorf("Expected 18.0h, got %.2f", tasks[1].EstimatedHours)
	}
	if tasks[1].OverheadFactors["dependency_overhead"] == 0 {
		t.Errorf("Expected dependency overhead recorded, got %v", tasks[1].OverheadFactors)
	}
}

func TestRoundToPracticalIncrement(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.9, 4.0},  // snaps to nearby increment
		{4.3, 4.5},  // too far to snap, rounds to half hour
		{0.4, 0.5},  // snaps to the smallest increment
		{8.05, 8.0}, // snaps down
		{10.2, 10.0},
	}
	for _, tt := range tests {
		if got := RoundToPracticalIncrement(tt.in); got != tt.want {
			t.Errorf("RoundToPracticalIncrement(%.2f) = %.2f, want %.2f", tt.in, got, tt.want)
		}
	}
}
