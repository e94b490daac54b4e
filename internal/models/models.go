// Package models defines the core domain types for taskflow.
package models

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// ValidStatus reports whether s is one of the known task states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// Priority is the scheduling priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// TaskType classifies the kind of work a task represents. The type drives
// the fixed overhead added during effort estimation.
type TaskType string

const (
	TaskTypeResearch       TaskType = "research"
	TaskTypeDesign         TaskType = "design"
	TaskTypeImplementation TaskType = "implementation"
	TaskTypeTesting        TaskType = "testing"
	TaskTypeDeployment     TaskType = "deployment"
	TaskTypeDocumentation  TaskType = "documentation"
)

// ValidTaskType reports whether t is a known task type.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeResearch, TaskTypeDesign, TaskTypeImplementation,
		TaskTypeTesting, TaskTypeDeployment, TaskTypeDocumentation:
		return true
	}
	return false
}

// Complexity is the estimated difficulty class of a task. It multiplies
// the base hours during effort estimation.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityExpert   Complexity = "expert"
)

// ValidComplexity reports whether c is a known complexity class.
func ValidComplexity(c Complexity) bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityExpert:
		return true
	}
	return false
}

// Task is one unit of work inside a plan. Indices are zero-based and
// positional: Dependencies refer to earlier tasks by index.
type Task struct {
	ID              int                `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	EstimatedHours  float64            `json:"estimated_hours"`
	Priority        Priority           `json:"priority"`
	TaskType        TaskType           `json:"task_type"`
	Complexity      Complexity         `json:"complexity_level"`
	Dependencies    []int              `json:"dependencies"`
	Status          TaskStatus         `json:"status"`
	StartTime       *time.Time         `json:"start_time,omitempty"`
	Deadline        *time.Time         `json:"deadline,omitempty"`
	BaseHours       float64            `json:"base_hours,omitempty"`
	OverheadFactors map[string]float64 `json:"overhead_factors,omitempty"`
	ActualHours     *float64           `json:"actual_hours,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	Subtasks        []Task             `json:"subtasks,omitempty"`
}

// Constraints tune how effort estimation interprets the team behind a plan.
type Constraints struct {
	TeamSize        int      `json:"team_size,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"` // beginner, intermediate, advanced
	TechnicalStack  []string `json:"technical_stack,omitempty"`
	HoursPerDay     float64  `json:"hours_per_day,omitempty"`
}

// PlanRequest is the input to a plan synthesis run.
type PlanRequest struct {
	Goal        string       `json:"goal"`
	Timeframe   string       `json:"timeframe"`
	StartDate   time.Time    `json:"start_date"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Plan is a fully synthesized project plan: an ordered list of scheduled
// tasks for a goal within a timeframe.
type Plan struct {
	ID        string    `json:"id"`
	Goal      string    `json:"goal"`
	Timeframe string    `json:"timeframe"`
	StartDate time.Time `json:"start_date"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalHours sums the estimated hours of all tasks in the plan.
func (p *Plan) TotalHours() float64 {
	var total float64
	for _, t := range p.Tasks {
		total += t.EstimatedHours
	}
	return total
}

// EstimatedCompletion is the latest task deadline, nil when the plan has
// not been scheduled.
func (p *Plan) EstimatedCompletion() *time.Time {
	var latest *time.Time
	for i := range p.Tasks {
		d := p.Tasks[i].Deadline
		if d != nil && (latest == nil || d.After(*latest)) {
			latest = d
		}
	}
	return latest
}

// MarshalJSON includes the derived totals so every serialized plan
// carries them without the store persisting redundant columns.
func (p Plan) MarshalJSON() ([]byte, error) {
	type alias Plan
	return json.Marshal(struct {
		alias
		TotalEstimatedHours float64    `json:"total_estimated_hours"`
		EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	}{alias(p), p.TotalHours(), p.EstimatedCompletion()})
}

// Comment is a user note attached to a task within a stored plan.
type Comment struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	TaskID    int       `json:"task_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationLog records one LLM synthesis attempt for audit.
type GenerationLog struct {
	ID         string    `json:"id"`
	PlanID     string    `json:"plan_id,omitempty"`
	InputsHash string    `json:"inputs_hash"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	TokensUsed int       `json:"tokens_used"`
	DurationMS int64     `json:"duration_ms"`
	Outcome    string    `json:"outcome"`
	CreatedAt  time.Time `json:"created_at"`
}

// OptimizationSuggestion is a single recommendation produced by plan
// optimization.
type OptimizationSuggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	TaskIDs     []int  `json:"task_ids,omitempty"`
	Impact      string `json:"impact,omitempty"`
}
