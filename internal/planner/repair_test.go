package planner

import (
	"errors"
	"testing"
)

func TestExtractPlan_CleanJSON(t *testing.T) {
	content := `{"tasks": [{"title": "Setup", "estimated_hours": 4, "priority": "high"}]}`

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(plan.Tasks))
	}
	if plan.Tasks[0].Title != "Setup" {
		t.Errorf("Expected title Setup, got %q", plan.Tasks[0].Title)
	}
}

func TestExtractPlan_FencedBlock(t *testing.T) {
	content := "Here is your plan:\n```json\n{\"tasks\": [{\"title\": \"Design\"}]}\n```\nGood luck!"

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 1 || plan.Tasks[0].Title != "Design" {
		t.Errorf("Unexpected tasks: %+v", plan.Tasks)
	}
}

func TestExtractPlan_SurroundingProse(t *testing.T) {
	content := `Sure! The plan is {"tasks": [{"title": "Research"}]} and that should do it.`

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 1 || plan.Tasks[0].Title != "Research" {
		t.Errorf("Unexpected tasks: %+v", plan.Tasks)
	}
}

func TestExtractPlan_SingleQuotes(t *testing.T) {
	content := `{'tasks': [{'title': 'Build', 'priority': 'medium'}]}`

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 1 || plan.Tasks[0].Title != "Build" {
		t.Errorf("Unexpected tasks: %+v", plan.Tasks)
	}
}

func TestExtractPlan_TrailingCommas(t *testing.T) {
	content := `{"tasks": [{"title": "Test",},]}`

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 1 || plan.Tasks[0].Title != "Test" {
		t.Errorf("Unexpected tasks: %+v", plan.Tasks)
	}
}

func TestExtractPlan_RepairStopsAtFirstValidResult(t *testing.T) {
	// Once quote normalization yields valid JSON, the truncation repairs
	// must not run: they would strip the final closing quote and corrupt
	// the document.
	content := `{'tasks': [{'title': 'Build', 'priority': 'medium'}, {'title': 'Ship', 'priority': 'low'}]}`

	plan, err := ExtractPlan(content)
	if err != nil {
		t.Fatalf("ExtractPlan failed: %v", err)
	}
	if len(plan.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(plan.Tasks))
	}
	if plan.Tasks[1].Title != "Ship" || plan.Tasks[1].Priority != "low" {
		t.Errorf("Last task corrupted by repair: %+v", plan.Tasks[1])
	}
}

func TestExtractPlan_NoJSON(t *testing.T) {
	_, err := ExtractPlan("I cannot help with that request.")
	if !errors.Is(err, ErrNoJSON) {
		t.Errorf("Expected ErrNoJSON, got %v", err)
	}
}

func TestExtractPlan_EmptyContent(t *testing.T) {
	_, err := ExtractPlan("")
	if !errors.Is(err, ErrNoJSON) {
		t.Errorf("Expected ErrNoJSON, got %v", err)
	}
}

func TestFallbackPlan_ScrapesListItems(t *testing.T) {
	content := "I couldn't format that, but here is an outline:\n" +
		"1. Research the target audience thoroughly\n" +
		"2. Design the main landing page\n" +
		"- Write the launch announcement\n"

	plan := FallbackPlan(content, "Launch a product")
	if len(plan.Tasks) != 3 {
		t.Fatalf("Expected 3 scraped tasks, got %d", len(plan.Tasks))
	}
	if plan.Tasks[0].Title != "Research the target audience thoroughly" {
		t.Errorf("Unexpected first title: %q", plan.Tasks[0].Title)
	}
}

func TestFallbackPlan_TemplateWhenNothingScrapes(t *testing.T) {
	plan := FallbackPlan("no usable content", "Build a website")
	if len(plan.Tasks) != 5 {
		t.Fatalf("Expected 5 template tasks, got %d", len(plan.Tasks))
	}
	if plan.Tasks[0].Title != "Setup development environment" {
		t.Errorf("Expected website template, got %q", plan.Tasks[0].Title)
	}

	generic := FallbackPlan("", "Learn to paint")
	if len(generic.Tasks) != 5 {
		t.Fatalf("Expected 5 generic template tasks, got %d", len(generic.Tasks))
	}
	if generic.Tasks[0].Title != "Research and planning" {
		t.Errorf("Expected generic template, got %q", generic.Tasks[0].Title)
	}
}
