package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPlanMarshalIncludesDerivedFields(t *testing.T) {
	deadline1 := time.Date(2024, 6, 3, 17, 0, 0, 0, time.UTC)
	deadline2 := time.Date(2024, 6, 4, 13, 0, 0, 0, time.UTC)
	plan := Plan{
		ID:   "p1",
		Goal: "Build a website",
		Tasks: []Task{
			{ID: 0, Title: "Design", EstimatedHours: 8, Deadline: &deadline2},
			{ID: 1, Title: "Build", EstimatedHours: 4, Deadline: &deadline1},
		},
	}

	data, err := json.Marshal(&plan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got := out["total_estimated_hours"]; got != 12.0 {
		t.Errorf("Expected total_estimated_hours 12, got %v", got)
	}
	completion, ok := out["estimated_completion"].(string)
	if !ok {
		t.Fatal("Expected estimated_completion in serialized plan")
	}
	parsed, err := time.Parse(time.RFC3339, completion)
	if err != nil {
		t.Fatalf("estimated_completion not RFC3339: %v", err)
	}
	if !parsed.Equal(deadline2) {
		t.Errorf("Expected latest deadline %v, got %v", deadline2, parsed)
	}
}

func TestPlanMarshalUnscheduled(t *testing.T) {
	plan := Plan{ID: "p1", Tasks: []Task{{Title: "Research", EstimatedHours: 2}}}

	data, err := json.Marshal(&plan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, present := out["estimated_completion"]; present {
		t.Error("Unscheduled plan should omit estimated_completion")
	}
	if got := out["total_estimated_hours"]; got != 2.0 {
		t.Errorf("Expected total_estimated_hours 2, got %v", got)
	}
}
