package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// defaultTaskHours is assumed when the model omits an estimate or emits
// one that cannot be coerced to a positive number.
const defaultTaskHours = 4.0

// demotionKeywords mark tasks eligible for demotion to low priority during
// the distribution pass.
var demotionKeywords = []string{"test", "document", "polish", "optimize", "cleanup"}

// ValidateTasks normalizes raw model tasks into well-formed domain tasks.
// Every field is guaranteed valid afterward: titles and descriptions are
// defaulted, hours coerced positive, enums clamped or auto-classified, and
// dependencies filtered to integer indices strictly below the task's own.
func ValidateTasks(raw []rawTask) []models.Task {
	tasks := make([]models.Task, 0, len(raw))
	for i, rt := range raw {
		t := models.Task{
			ID:          i,
			Title:       strings.TrimSpace(rt.Title),
			Description: strings.TrimSpace(rt.Description),
			Status:      models.TaskStatusTodo,
		}
		if t.Title == "" {
			t.Title = fmt.Sprintf("Task %d", i+1)
		}
		if t.Description == "" {
			t.Description = "No description provided"
		}

		t.EstimatedHours = coerceHours(rt.EstimatedHours)

		t.Priority = models.Priority(rt.Priority)
		if !models.ValidPriority(t.Priority) {
			t.Priority = models.PriorityMedium
		}
		t.Complexity = models.Complexity(rt.Complexity)
		if !models.ValidComplexity(t.Complexity) {
			t.Complexity = DetectComplexity(t.Title, t.Description)
		}
		t.TaskType = models.TaskType(rt.TaskType)
		if !models.ValidTaskType(t.TaskType) {
			t.TaskType = DetectTaskType(t.Title, t.Description)
		}

		t.Dependencies = filterDependencies(rt.Dependencies, i)
		tasks = append(tasks, t)
	}

	rebalancePriorities(tasks)
	return tasks
}

// coerceHours turns whatever the model emitted for estimated_hours into a
// positive float rounded to one decimal. Strings holding plain float
// syntax are accepted; anything else gets the default.
func coerceHours(v any) float64 {
	var hours float64
	switch n := v.(type) {
	case float64:
		hours = n
	case json.Number:
		hours, _ = n.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return defaultTaskHours
		}
		hours = parsed
	default:
		return defaultTaskHours
	}
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return defaultTaskHours
	}
	return math.Round(hours*10) / 10
}

// filterDependencies keeps only integer indices in [0, self). JSON numbers
// decode as float64, so a dependency is integral only when it has no
// fractional part.
func filterDependencies(deps []any, self int) []int {
	out := []int{}
	for _, d := range deps {
		var idx int
		switch n := d.(type) {
		case float64:
			if n != math.Trunc(n) {
				continue
			}
			idx = int(n)
		case int:
			idx = n
		default:
			continue
		}
		if idx >= 0 && idx < self {
			out = append(out, idx)
		}
	}
	return out
}

// rebalancePriorities is a corrective heuristic over the whole plan: if
// more than 40% of tasks are high priority, all but the first three are
// demoted to medium; if fewer than 10% are low priority, the last two
// medium tasks with a polish/testing/documentation flavored title are
// demoted to low. It only fires when a threshold is breached.
func rebalancePriorities(tasks []models.Task) {
	if len(tasks) == 0 {
		return
	}

	var high, low int
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityHigh:
			high++
		case models.PriorityLow:
			low++
		}
	}
	total := float64(len(tasks))

	if float64(high)/total > 0.40 {
		kept := 0
		for i := range tasks {
			if tasks[i].Priority != models.PriorityHigh {
				continue
			}
			kept++
			if kept > 3 {
				tasks[i].Priority = models.PriorityMedium
			}
		}
	}

	if float64(low)/total < 0.10 {
		considered := 0
		for i := len(tasks) - 1; i >= 0 && considered < 2; i-- {
			if tasks[i].Priority != models.PriorityMedium {
				continue
			}
			if containsAny(strings.ToLower(tasks[i].Title), demotionKeywords) {
				tasks[i].Priority = models.PriorityLow
			}
			considered++
		}
	}
}
