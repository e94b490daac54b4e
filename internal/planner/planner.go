// Package planner turns model output into scheduled project plans: it
// repairs the JSON the model actually emits, normalizes and re-estimates
// the tasks, fits them to the requested timeframe, splits oversized work,
// and lays everything out on a working calendar.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow-ai/taskflow/internal/llm"
	"github.com/taskflow-ai/taskflow/internal/logger"
	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/notify"
)

// Generator produces raw model output for a prompt pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (*llm.Result, error)
	Model() string
}

// Synthesis captures what one generation run did, for audit logging.
type Synthesis struct {
	Prompt       string
	RawResponse  string
	TokensUsed   int
	Duration     time.Duration
	Model        string
	UsedFallback bool
}

// Planner runs the synthesis pipeline. The notifier receives advisory
// progress updates; it must never be relied on for correctness.
type Planner struct {
	gen      Generator
	notifier notify.Notifier
}

func New(gen Generator, notifier notify.Notifier) *Planner {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Planner{gen: gen, notifier: notifier}
}

// Generate synthesizes a full plan for the request. Pipeline order:
// prompt, model call, JSON repair (template fallback if unrepairable),
// validation, effort estimation, timeframe enforcement, task splitting,
// scheduling. Only transport errors and timeframe rejections fail the
// run; unusable model output degrades to a fallback plan instead.
func (p *Planner) Generate(ctx context.Context, req models.PlanRequest, sessionID string) (*models.Plan, *Synthesis, error) {
	progress := func(percent int, message string) {
		if sessionID != "" {
			p.notifier.Progress(sessionID, percent, message)
		}
	}

	progress(10, "Preparing generation request...")
	userPrompt := BuildUserPrompt(req)
	syn := &Synthesis{Prompt: userPrompt, Model: p.gen.Model()}

	progress(20, "Analyzing goal and constraints...")
	progress(30, "Sending request to AI...")
	result, err := p.gen.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		if sessionID != "" {
			p.notifier.Complete(sessionID, "", err)
		}
		return nil, syn, err
	}
	syn.RawResponse = result.Content
	syn.TokensUsed = result.TokensUsed
	syn.Duration = result.Duration

	progress(60, "AI response received, processing...")
	raw, err := ExtractPlan(result.Content)
	if err != nil || len(raw.Tasks) == 0 {
		logger.Warn("model output unusable, building fallback plan: %v", err)
		progress(75, "Creating fallback plan...")
		raw = FallbackPlan(result.Content, req.Goal)
		syn.UsedFallback = true
	}

	progress(70, "Parsing AI response...")
	tasks := ValidateTasks(raw.Tasks)
	EstimateEffort(tasks, req.Constraints)

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	if req.Timeframe != "" && !CompliesWithTimeframe(tasks, req.Timeframe) {
		progress(75, "Adjusting task hours to fit timeframe...")
		if err := EnforceTimeframe(tasks, req.Timeframe); err != nil {
			// Reject, but leave a correct schedule on the tasks so the
			// caller can inspect where the plan would have landed.
			Schedule(tasks, startDate)
			if sessionID != "" {
				p.notifier.Complete(sessionID, "", err)
			}
			return nil, syn, err
		}
	}

	progress(80, "Validating and fixing tasks...")
	tasks = SplitLongTasks(tasks)
	Schedule(tasks, startDate)
	progress(90, "Calculating task deadlines and dependencies...")

	now := time.Now()
	plan := &models.Plan{
		ID:        uuid.New().String(),
		Goal:      req.Goal,
		Timeframe: req.Timeframe,
		StartDate: startDate,
		Tasks:     tasks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	progress(100, "Task plan generation complete!")
	if sessionID != "" {
		p.notifier.Complete(sessionID, plan.ID, nil)
	}
	return plan, syn, nil
}

// IsRejection reports whether err is a timeframe rejection rather than a
// transport failure.
func IsRejection(err error) bool {
	var tfErr *TimeframeError
	return errors.As(err, &tfErr)
}
