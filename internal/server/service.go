// Package server provides the HTTP API and service layer for taskflow.
package server

import (
	"context"
	"time"

	"github.com/taskflow-ai/taskflow/internal/analytics"
	"github.com/taskflow-ai/taskflow/internal/audit"
	"github.com/taskflow-ai/taskflow/internal/cache"
	"github.com/taskflow-ai/taskflow/internal/ical"
	"github.com/taskflow-ai/taskflow/internal/llm"
	"github.com/taskflow-ai/taskflow/internal/metrics"
	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/planner"
	"github.com/taskflow-ai/taskflow/internal/store"
)

// Service provides the plan API business logic.
type Service struct {
	store     *store.Store
	planner   *planner.Planner
	health    HealthChecker
	cache     *cache.Cache
	recorder  *audit.Recorder
	metrics   *metrics.Collector
	analytics *analytics.Service
	limiter   *rateLimiter
}

// HealthChecker probes the LLM backend.
type HealthChecker interface {
	CheckStatus(ctx context.Context) llm.Status
}

// NewService creates a new plan service.
func NewService(s *store.Store, p *planner.Planner, health HealthChecker, c *cache.Cache, m *metrics.Collector) *Service {
	return &Service{
		store:     s,
		planner:   p,
		health:    health,
		cache:     c,
		recorder:  audit.NewRecorder(s),
		metrics:   m,
		analytics: analytics.NewService(s),
		limiter:   newRateLimiter(rateLimitRequests, rateLimitWindow),
	}
}

// --- Plan Operations ---

// GeneratePlan synthesizes, persists, and caches a plan. The bool result
// reports whether the plan came from cache. Cache hits bypass the rate
// limit since they cost no LLM round trip.
func (s *Service) GeneratePlan(ctx context.Context, req models.PlanRequest, sessionID, clientID string, useCache bool) (*models.Plan, bool, error) {
	key := cache.Key(&req)

	if useCache && s.cache != nil {
		if plan := s.cache.Get(key); plan != nil {
			s.metrics.RecordCacheHit()
			return plan, true, nil
		}
		s.metrics.RecordCacheMiss()
	}

	if !s.limiter.allow(clientID) {
		return nil, false, ErrRateLimited
	}

	// Collapse identical concurrent requests into one generation
	if useCache && s.cache != nil {
		first, wait, done := s.cache.Begin(key)
		if !first {
			select {
			case <-wait:
				if plan := s.cache.Get(key); plan != nil {
					s.metrics.RecordCacheHit()
					return plan, true, nil
				}
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		} else {
			defer done()
		}
	}

	start := time.Now()
	plan, synth, err := s.planner.Generate(ctx, req, sessionID)

	outcome := "success"
	switch {
	case err != nil && planner.IsRejection(err):
		outcome = "rejected"
	case err != nil:
		outcome = "error"
	case synth != nil && synth.UsedFallback:
		outcome = "fallback"
	}

	planID := ""
	if plan != nil {
		planID = plan.ID
	}
	prompt, response, tokens := "", "", 0
	if synth != nil {
		prompt = synth.Prompt
		response = synth.RawResponse
		tokens = synth.TokensUsed
		s.metrics.RecordLLMCall(synth.TokensUsed)
	}
	s.recorder.Record(planID, req, prompt, response, tokens, time.Since(start), outcome)

	if err != nil {
		return nil, false, err
	}

	if err := s.store.SavePlan(plan); err != nil {
		return nil, false, err
	}
	if useCache && s.cache != nil {
		s.cache.Put(key, plan)
	}
	return plan, false, nil
}

// GetPlan retrieves a plan.
func (s *Service) GetPlan(id string) (*models.Plan, error) {
	plan, err := s.store.GetPlan(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns all plans.
func (s *Service) ListPlans() ([]models.Plan, error) {
	return s.store.ListPlans()
}

// RegeneratePlan re-synthesizes an existing plan's tasks in place.
func (s *Service) RegeneratePlan(ctx context.Context, id, sessionID string) (*models.Plan, error) {
	existing, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}

	req := models.PlanRequest{
		Goal:      existing.Goal,
		Timeframe: existing.Timeframe,
		StartDate: existing.StartDate,
	}

	start := time.Now()
	plan, synth, genErr := s.planner.Generate(ctx, req, sessionID)

	outcome := "success"
	if genErr != nil {
		outcome = "error"
		if planner.IsRejection(genErr) {
			outcome = "rejected"
		}
	}
	prompt, response, tokens := "", "", 0
	if synth != nil {
		prompt = synth.Prompt
		response = synth.RawResponse
		tokens = synth.TokensUsed
		s.metrics.RecordLLMCall(synth.TokensUsed)
	}
	s.recorder.Record(id, req, prompt, response, tokens, time.Since(start), outcome)

	if genErr != nil {
		return nil, genErr
	}

	existing.Tasks = plan.Tasks
	if err := s.store.UpdatePlan(existing); err != nil {
		return nil, err
	}
	s.invalidateCached(id)
	return existing, nil
}

// DeletePlan removes a plan.
func (s *Service) DeletePlan(id string) error {
	deleted, err := s.store.DeletePlan(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPlanNotFound
	}
	s.invalidateCached(id)
	return nil
}

// invalidateCached drops stale cache entries for a mutated plan so later
// identical requests do not serve the pre-mutation copy.
func (s *Service) invalidateCached(planID string) {
	if s.cache != nil {
		s.cache.InvalidatePlan(planID)
	}
}

// --- Task Operations ---

// TaskUpdate holds optional task field updates.
type TaskUpdate struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Priority       *string  `json:"priority"`
	ActualHours    *float64 `json:"actual_hours"`
	Notes          *string  `json:"notes"`
}

// UpdateTask applies field updates to one task in a plan.
func (s *Service) UpdateTask(planID string, taskID int, update TaskUpdate) (*models.Task, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if taskID < 0 || taskID >= len(plan.Tasks) {
		return nil, ErrTaskNotFound
	}

	task := &plan.Tasks[taskID]
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.EstimatedHours != nil && *update.EstimatedHours > 0 {
		task.EstimatedHours = *update.EstimatedHours
	}
	if update.Priority != nil && models.ValidPriority(models.Priority(*update.Priority)) {
		task.Priority = models.Priority(*update.Priority)
	}
	if update.ActualHours != nil {
		task.ActualHours = update.ActualHours
	}
	if update.Notes != nil {
		task.Notes = *update.Notes
	}

	if err := s.store.UpdatePlan(plan); err != nil {
		return nil, err
	}
	s.invalidateCached(planID)
	return task, nil
}

// UpdateTaskStatus transitions a task's status.
func (s *Service) UpdateTaskStatus(planID string, taskID int, status string) (*models.Task, error) {
	if !models.ValidStatus(models.TaskStatus(status)) {
		return nil, ErrInvalidStatus
	}

	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if taskID < 0 || taskID >= len(plan.Tasks) {
		return nil, ErrTaskNotFound
	}

	task := &plan.Tasks[taskID]
	task.Status = models.TaskStatus(status)
	if task.Status == models.TaskStatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.store.UpdatePlan(plan); err != nil {
		return nil, err
	}
	s.invalidateCached(planID)
	return task, nil
}

// GenerateSubtasks breaks one task into subtasks and persists them.
func (s *Service) GenerateSubtasks(ctx context.Context, planID string, taskID int) ([]models.Task, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if taskID < 0 || taskID >= len(plan.Tasks) {
		return nil, ErrTaskNotFound
	}

	subtasks := s.planner.GenerateSubtasks(ctx, plan.Tasks[taskID])
	plan.Tasks[taskID].Subtasks = subtasks

	if err := s.store.UpdatePlan(plan); err != nil {
		return nil, err
	}
	s.invalidateCached(planID)
	return subtasks, nil
}

// --- Comment Operations ---

// AddComment attaches a comment to a task.
func (s *Service) AddComment(planID string, taskID int, author, content string) (*models.Comment, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if taskID < 0 || taskID >= len(plan.Tasks) {
		return nil, ErrTaskNotFound
	}
	return s.store.AddComment(planID, taskID, author, content)
}

// ListComments returns a task's comments.
func (s *Service) ListComments(planID string, taskID int) ([]models.Comment, error) {
	if _, err := s.GetPlan(planID); err != nil {
		return nil, err
	}
	return s.store.ListComments(planID, taskID)
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(commentID string) error {
	deleted, err := s.store.DeleteComment(commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}

// --- Insight Operations ---

// SuggestNextTasks returns actionable next tasks for a plan.
func (s *Service) SuggestNextTasks(planID string) ([]planner.Suggestion, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return planner.SuggestNextTasks(plan), nil
}

// OptimizePlan analyzes a plan against an optimization goal.
func (s *Service) OptimizePlan(ctx context.Context, planID, goal string) (*planner.Optimization, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return s.planner.OptimizePlan(ctx, plan, goal), nil
}

// ExportCalendar renders a plan as an iCalendar document.
func (s *Service) ExportCalendar(planID string) (string, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return "", err
	}
	return ical.Render(plan), nil
}

// RecentGenerations returns the most recent synthesis audit records.
func (s *Service) RecentGenerations(limit int) ([]models.GenerationLog, error) {
	return s.recorder.Recent(limit)
}

// Analytics returns the cross-plan summary.
func (s *Service) Analytics() (*analytics.Summary, error) {
	return s.analytics.Summarize()
}

// PlanAnalytics returns per-plan progress metrics.
func (s *Service) PlanAnalytics(planID string) (*analytics.PlanSummary, error) {
	summary, err := s.analytics.SummarizePlan(planID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrPlanNotFound
	}
	return summary, nil
}

// HealthReport describes service and dependency health.
type HealthReport struct {
	Status   string        `json:"status"`
	Database string        `json:"database"`
	Ollama   llm.Status    `json:"ollama"`
	Metrics  metrics.Stats `json:"metrics"`
}

// Health probes the database and LLM backend.
func (s *Service) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", Database: "ok"}

	if err := s.store.Ping(ctx); err != nil {
		report.Status = "degraded"
		report.Database = err.Error()
	}

	report.Ollama = s.health.CheckStatus(ctx)
	if report.Ollama.Status != "running" {
		report.Status = "degraded"
	}

	report.Metrics = s.metrics.Snapshot()
	return report
}

// Metrics returns the current counters.
func (s *Service) Metrics() metrics.Stats {
	return s.metrics.Snapshot()
}
