package planner

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/logger"
	"github.com/taskflow-ai/taskflow/internal/models"
)

const subtaskPromptTemplate = `You are an expert project manager. Break down this task into 3-5 specific, actionable subtasks.

MAIN TASK:
Title: %s
Description: %s
Estimated Hours: %.1f hours

REQUIREMENTS:
1. Create 3-5 subtasks that are specific and actionable
2. Each subtask should be a logical step toward completing the main task
3. Estimated hours for all subtasks must sum to %.1f hours
4. Make subtasks independent where possible
5. Order them logically (prerequisites first)

Return ONLY valid JSON in this exact format:
{
  "subtasks": [
    {
      "title": "Specific subtask title",
      "description": "Clear description of what needs to be done",
      "estimated_hours": 2.5
    }
  ]
}

IMPORTANT: Return ONLY the JSON object, no other text.`

type rawSubtasks struct {
	Subtasks []rawTask `json:"subtasks"`
}

// GenerateSubtasks decomposes one task into 3-5 subtasks via the model,
// rescaling hours so the parts sum to the parent's estimate. Any failure
// degrades to a plan-implement-verify breakdown rather than an error.
func (p *Planner) GenerateSubtasks(ctx context.Context, task models.Task) []models.Task {
	prompt := fmt.Sprintf(subtaskPromptTemplate,
		task.Title, task.Description, task.EstimatedHours, task.EstimatedHours)

	result, err := p.gen.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		logger.Warn("subtask generation failed for %q: %v", task.Title, err)
		return fallbackSubtasks(task)
	}

	raw, err := ExtractPlan(result.Content)
	subs := extractSubtasks(result.Content, raw, err)
	if len(subs) < 2 {
		logger.Warn("unusable subtask response for %q", task.Title)
		return fallbackSubtasks(task)
	}

	out := make([]models.Task, 0, len(subs))
	var total float64
	for i, rt := range subs {
		title := strings.TrimSpace(rt.Title)
		if title == "" {
			title = fmt.Sprintf("Subtask %d", i+1)
		}
		description := strings.TrimSpace(rt.Description)
		if description == "" {
			description = fmt.Sprintf("Complete subtask %d", i+1)
		}
		hours := coerceHours(rt.EstimatedHours)
		if hours <= 0 {
			hours = 1.0
		}
		out = append(out, models.Task{
			ID:             i,
			Title:          title,
			Description:    description,
			EstimatedHours: hours,
			Status:         models.TaskStatusTodo,
		})
		total += hours
	}

	// Rescale so the parts sum to the parent's estimate.
	if total > 0 && total != task.EstimatedHours {
		scale := task.EstimatedHours / total
		for i := range out {
			out[i].EstimatedHours = math.Round(out[i].EstimatedHours*scale*10) / 10
		}
	}
	return out
}

// extractSubtasks pulls the subtasks array out of whatever shape the
// repair produced. The subtask prompt asks for a "subtasks" key, but the
// model sometimes answers with the plan-style "tasks" key instead.
func extractSubtasks(content string, plan *rawPlan, planErr error) []rawTask {
	var wrapped rawSubtasks
	if candidate, err := extractCandidate(content); err == nil {
		if err := jsonUnmarshalLoose(candidate, &wrapped); err == nil && len(wrapped.Subtasks) > 0 {
			return wrapped.Subtasks
		}
	}
	if planErr == nil && plan != nil {
		return plan.Tasks
	}
	return nil
}

// fallbackSubtasks is the 20/60/20 plan-implement-verify breakdown used
// when the model cannot produce a usable decomposition.
func fallbackSubtasks(task models.Task) []models.Task {
	hours := task.EstimatedHours
	if hours <= 0 {
		hours = 4
	}
	round1 := func(v float64) float64 { return math.Round(v*10) / 10 }

	subs := []models.Task{
		{
			ID:             0,
			Title:          "Plan and prepare for " + task.Title,
			Description:    fmt.Sprintf("Research, gather resources, and create a plan for %s", task.Title),
			EstimatedHours: round1(hours * 0.2),
			Status:         models.TaskStatusTodo,
		},
		{
			ID:             1,
			Title:          "Implement " + task.Title,
			Description:    fmt.Sprintf("Execute the main work for %s", task.Title),
			EstimatedHours: round1(hours * 0.6),
			Status:         models.TaskStatusTodo,
		},
		{
			ID:             2,
			Title:          "Test and finalize " + task.Title,
			Description:    fmt.Sprintf("Test the implementation and make final adjustments for %s", task.Title),
			EstimatedHours: round1(hours * 0.2),
			Status:         models.TaskStatusTodo,
		},
	}

	total := subs[0].EstimatedHours + subs[1].EstimatedHours + subs[2].EstimatedHours
	if total != hours {
		subs[1].EstimatedHours = round1(subs[1].EstimatedHours + hours - total)
	}
	return subs
}
