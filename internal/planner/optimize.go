package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/logger"
	"github.com/taskflow-ai/taskflow/internal/models"
)

// Optimization is the result of analyzing a plan for a goal.
type Optimization struct {
	Recommendations      []Recommendation `json:"recommendations"`
	EstimatedImprovement string           `json:"estimated_improvement"`
	Warnings             []string         `json:"warnings"`
	Summary              string           `json:"summary"`
}

// Recommendation is one actionable suggestion.
type Recommendation struct {
	Type       string `json:"type"`
	TaskIDs    []int  `json:"task_ids"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
	Priority   string `json:"priority"`
}

var optimizationGoals = map[string]string{
	"time":      "Optimize this plan to complete in minimum time by identifying tasks that can be parallelized and suggesting better sequencing.",
	"resources": "Optimize this plan for a single-person team by ensuring tasks are properly sequenced and dependencies are realistic for one person.",
	"risk":      "Identify high-risk tasks and suggest mitigation strategies, alternative approaches, or additional safeguards.",
}

// ValidOptimizationGoal reports whether goal is one of time, resources,
// or risk.
func ValidOptimizationGoal(goal string) bool {
	_, ok := optimizationGoals[goal]
	return ok
}

// OptimizePlan asks the model to analyze the plan for the given goal and
// returns validated recommendations. Falls back to simple heuristics when
// the model cannot be reached or its output is unusable.
func (p *Planner) OptimizePlan(ctx context.Context, plan *models.Plan, goal string) *Optimization {
	instruction, ok := optimizationGoals[goal]
	if !ok {
		goal = "time"
		instruction = optimizationGoals[goal]
	}

	var summary strings.Builder
	for i, t := range plan.Tasks {
		fmt.Fprintf(&summary, "%d. %s (%.1fh, priority: %s, deps: %v)\n",
			i+1, t.Title, t.EstimatedHours, t.Priority, t.Dependencies)
	}

	prompt := fmt.Sprintf(`You are an expert project manager and optimization specialist. Analyze this project plan and %s

PROJECT GOAL: %s
TOTAL ESTIMATED HOURS: %.1f hours

CURRENT TASKS:
%s
OPTIMIZATION GOAL: %s

Return your analysis in this EXACT JSON format:
{
  "recommendations": [
    {
      "type": "parallelization|sequencing|risk_mitigation|resource_optimization",
      "task_ids": [0, 1],
      "suggestion": "Specific actionable recommendation with clear reasoning",
      "impact": "Expected improvement",
      "priority": "high|medium|low"
    }
  ],
  "estimated_improvement": "Overall expected improvement percentage or description",
  "warnings": ["List any concerns or risks with the optimization"],
  "summary": "Brief summary of key optimization opportunities"
}

IMPORTANT: Return ONLY the JSON object, no other text.`,
		instruction, plan.Goal, plan.TotalHours(), summary.String(), strings.ToUpper(goal))

	result, err := p.gen.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		logger.Warn("plan optimization failed for %q: %v", plan.Goal, err)
		return heuristicOptimization(plan, goal)
	}

	candidate, err := extractCandidate(result.Content)
	if err != nil {
		return heuristicOptimization(plan, goal)
	}
	var opt Optimization
	if err := jsonUnmarshalLoose(candidate, &opt); err != nil {
		return heuristicOptimization(plan, goal)
	}

	sanitizeOptimization(&opt, len(plan.Tasks))
	return &opt
}

// sanitizeOptimization fills defaulted fields and drops out-of-range task
// references from a model-produced optimization.
func sanitizeOptimization(opt *Optimization, taskCount int) {
	if opt.EstimatedImprovement == "" {
		opt.EstimatedImprovement = "Analysis completed"
	}
	if opt.Summary == "" {
		opt.Summary = "Plan analysis completed"
	}
	if opt.Warnings == nil {
		opt.Warnings = []string{}
	}

	cleaned := make([]Recommendation, 0, len(opt.Recommendations))
	for _, rec := range opt.Recommendations {
		valid := make([]int, 0, len(rec.TaskIDs))
		for _, id := range rec.TaskIDs {
			if id >= 0 && id < taskCount {
				valid = append(valid, id)
			}
		}
		rec.TaskIDs = valid
		if rec.Type == "" {
			rec.Type = "general"
		}
		if rec.Suggestion == "" {
			rec.Suggestion = "General optimization suggestion"
		}
		if rec.Impact == "" {
			rec.Impact = "Positive impact expected"
		}
		if rec.Priority == "" {
			rec.Priority = "medium"
		}
		cleaned = append(cleaned, rec)
	}
	opt.Recommendations = cleaned
}

// heuristicOptimization produces basic recommendations without the model:
// parallelizable independent tasks for time, oversized tasks for
// resources, high-priority tasks as risk candidates.
func heuristicOptimization(plan *models.Plan, goal string) *Optimization {
	var recs []Recommendation

	switch goal {
	case "time":
		var independent []int
		for i, t := range plan.Tasks {
			if len(t.Dependencies) == 0 {
				independent = append(independent, i)
			}
		}
		if len(independent) > 1 {
			recs = append(recs, Recommendation{
				Type:       "parallelization",
				TaskIDs:    independent[:2],
				Suggestion: fmt.Sprintf("Tasks %d and %d have no dependencies and can be done in parallel", independent[0]+1, independent[1]+1),
				Impact:     "Reduces total completion time",
				Priority:   "high",
			})
		}
	case "resources":
		for i, t := range plan.Tasks {
			if t.EstimatedHours > 8 {
				recs = append(recs, Recommendation{
					Type:       "resource_optimization",
					TaskIDs:    []int{i},
					Suggestion: fmt.Sprintf("Task %d is quite large (%.1fh). Consider breaking it into smaller subtasks", i+1, t.EstimatedHours),
					Impact:     "Better resource management and progress tracking",
					Priority:   "medium",
				})
				break
			}
		}
	case "risk":
		for i, t := range plan.Tasks {
			if t.Priority == models.PriorityHigh {
				recs = append(recs, Recommendation{
					Type:       "risk_mitigation",
					TaskIDs:    []int{i},
					Suggestion: fmt.Sprintf("Task %d is high priority. Consider adding buffer time or backup plans", i+1),
					Impact:     "Reduces project risk",
					Priority:   "high",
				})
				break
			}
		}
	}

	return &Optimization{
		Recommendations:      recs,
		EstimatedImprovement: "Basic optimization suggestions provided",
		Warnings:             []string{"AI analysis unavailable - using basic heuristics"},
		Summary:              "Fallback optimization completed",
	}
}
