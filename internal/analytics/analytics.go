// Package analytics aggregates stored plans into dashboard metrics.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
	"github.com/taskflow-ai/taskflow/internal/store"
)

const (
	recentActivityLimit = 10
	maxInsights         = 5
)

// Summary aggregates metrics across every stored plan.
type Summary struct {
	TotalPlans           int                 `json:"total_plans"`
	TotalTasks           int                 `json:"total_tasks"`
	TotalHours           float64             `json:"total_hours"`
	AvgTasksPerPlan      float64             `json:"avg_tasks_per_plan"`
	AvgHoursPerPlan      float64             `json:"avg_hours_per_plan"`
	PriorityDistribution map[string]int      `json:"priority_distribution"`
	StatusDistribution   map[string]int      `json:"status_distribution"`
	CompletionRate       float64             `json:"completion_rate"`
	PopularTimeframes    map[string]int      `json:"popular_timeframes"`
	RecentActivity       []ActivityEntry     `json:"recent_activity"`
	Productivity         ProductivityMetrics `json:"productivity_metrics"`
	Insights             []string            `json:"insights"`
}

// ActivityEntry is one plan in the recent activity feed.
type ActivityEntry struct {
	ID             string    `json:"id"`
	Goal           string    `json:"goal"`
	CreatedAt      time.Time `json:"created_at"`
	TasksCount     int       `json:"tasks_count"`
	CompletedTasks int       `json:"completed_tasks"`
}

// ProductivityMetrics tracks recent throughput.
type ProductivityMetrics struct {
	PlansThisWeek          int     `json:"plans_this_week"`
	TasksCompletedThisWeek int     `json:"tasks_completed_this_week"`
	AvgCompletionHours     float64 `json:"avg_completion_time"`
	MostProductiveDay      string  `json:"most_productive_day,omitempty"`
}

// PlanSummary holds progress metrics for a single plan.
type PlanSummary struct {
	PlanID               string         `json:"plan_id"`
	Goal                 string         `json:"goal"`
	TotalTasks           int            `json:"total_tasks"`
	CompletedTasks       int            `json:"completed_tasks"`
	InProgressTasks      int            `json:"in_progress_tasks"`
	CompletionRate       float64        `json:"completion_rate"`
	PriorityDistribution map[string]int `json:"priority_distribution"`
	TotalEstimatedHours  float64        `json:"total_estimated_hours"`
	TotalActualHours     float64        `json:"total_actual_hours"`
	CreatedAt            time.Time      `json:"created_at"`
}

// Service computes analytics over the plan store.
type Service struct {
	store *store.Store
}

// NewService creates an analytics service.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Summarize builds the dashboard summary across all plans.
func (s *Service) Summarize() (*Summary, error) {
	plans, err := s.store.ListPlans()
	if err != nil {
		return nil, err
	}
	return Summarize(plans, time.Now()), nil
}

// Summarize aggregates the given plans. now anchors the this-week window.
func Summarize(plans []models.Plan, now time.Time) *Summary {
	summary := &Summary{
		TotalPlans:           len(plans),
		PriorityDistribution: map[string]int{"high": 0, "medium": 0, "low": 0},
		StatusDistribution:   map[string]int{"todo": 0, "in_progress": 0, "completed": 0, "blocked": 0},
		PopularTimeframes:    map[string]int{},
		RecentActivity:       []ActivityEntry{},
	}

	weekAgo := now.AddDate(0, 0, -7)
	completedTasks := 0
	var completionHours float64
	completionCount := 0
	dailyActivity := map[string]int{}

	for _, plan := range plans {
		summary.TotalTasks += len(plan.Tasks)
		dailyActivity[plan.CreatedAt.Weekday().String()]++
		if plan.CreatedAt.After(weekAgo) {
			summary.Productivity.PlansThisWeek++
		}

		planCompleted := 0
		for _, task := range plan.Tasks {
			summary.TotalHours += task.EstimatedHours
			if _, ok := summary.PriorityDistribution[string(task.Priority)]; ok {
				summary.PriorityDistribution[string(task.Priority)]++
			}
			if _, ok := summary.StatusDistribution[string(task.Status)]; ok {
				summary.StatusDistribution[string(task.Status)]++
			}
			if task.Status == models.TaskStatusCompleted {
				completedTasks++
				planCompleted++
				if task.CompletedAt != nil {
					completionHours += task.CompletedAt.Sub(plan.CreatedAt).Hours()
					completionCount++
					if task.CompletedAt.After(weekAgo) {
						summary.Productivity.TasksCompletedThisWeek++
					}
				}
			}
		}

		if plan.Timeframe != "" {
			summary.PopularTimeframes[plan.Timeframe]++
		}
		summary.RecentActivity = append(summary.RecentActivity, ActivityEntry{
			ID:             plan.ID,
			Goal:           plan.Goal,
			CreatedAt:      plan.CreatedAt,
			TasksCount:     len(plan.Tasks),
			CompletedTasks: planCompleted,
		})
	}

	if summary.TotalPlans > 0 {
		summary.AvgTasksPerPlan = round1(float64(summary.TotalTasks) / float64(summary.TotalPlans))
		summary.AvgHoursPerPlan = round1(summary.TotalHours / float64(summary.TotalPlans))
	}
	if summary.TotalTasks > 0 {
		summary.CompletionRate = round1(float64(completedTasks) / float64(summary.TotalTasks) * 100)
	}
	if completionCount > 0 {
		summary.Productivity.AvgCompletionHours = round1(completionHours / float64(completionCount))
	}
	summary.Productivity.MostProductiveDay = busiestDay(dailyActivity)

	sort.Slice(summary.RecentActivity, func(i, j int) bool {
		return summary.RecentActivity[i].CreatedAt.After(summary.RecentActivity[j].CreatedAt)
	})
	if len(summary.RecentActivity) > recentActivityLimit {
		summary.RecentActivity = summary.RecentActivity[:recentActivityLimit]
	}

	summary.Insights = generateInsights(summary)
	return summary
}

// SummarizePlan builds progress metrics for one plan. Returns (nil, nil)
// when the plan does not exist.
func (s *Service) SummarizePlan(planID string) (*PlanSummary, error) {
	plan, err := s.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	return SummarizePlan(plan), nil
}

// SummarizePlan computes the per-plan breakdown.
func SummarizePlan(plan *models.Plan) *PlanSummary {
	ps := &PlanSummary{
		PlanID:               plan.ID,
		Goal:                 plan.Goal,
		TotalTasks:           len(plan.Tasks),
		PriorityDistribution: map[string]int{"high": 0, "medium": 0, "low": 0},
		CreatedAt:            plan.CreatedAt,
	}

	for _, task := range plan.Tasks {
		switch task.Status {
		case models.TaskStatusCompleted:
			ps.CompletedTasks++
		case models.TaskStatusInProgress:
			ps.InProgressTasks++
		}
		if _, ok := ps.PriorityDistribution[string(task.Priority)]; ok {
			ps.PriorityDistribution[string(task.Priority)]++
		}
		ps.TotalEstimatedHours += task.EstimatedHours
		if task.ActualHours != nil {
			ps.TotalActualHours += *task.ActualHours
		}
	}

	if ps.TotalTasks > 0 {
		ps.CompletionRate = round1(float64(ps.CompletedTasks) / float64(ps.TotalTasks) * 100)
	}
	return ps
}

func generateInsights(s *Summary) []string {
	var insights []string

	switch {
	case s.TotalTasks == 0:
		return []string{"No data available yet. Create your first plan to see analytics."}
	case s.CompletionRate > 80:
		insights = append(insights, "Excellent completion rate.")
	case s.CompletionRate > 60:
		insights = append(insights, "Good completion rate. Consider breaking down larger tasks.")
	case s.CompletionRate > 40:
		insights = append(insights, "Room for improvement. Try focusing on fewer tasks at once.")
	default:
		insights = append(insights, "Consider prioritizing smaller, achievable tasks.")
	}

	totalPriority := s.PriorityDistribution["high"] + s.PriorityDistribution["medium"] + s.PriorityDistribution["low"]
	if totalPriority > 0 {
		highRatio := float64(s.PriorityDistribution["high"]) / float64(totalPriority)
		if highRatio > 0.5 {
			insights = append(insights, "Many high-priority tasks. Consider delegating or rescheduling.")
		} else if highRatio < 0.2 {
			insights = append(insights, "Consider adding more high-impact tasks to your plans.")
		}
	}

	if s.Productivity.PlansThisWeek > 3 {
		insights = append(insights, "Very active this week.")
	} else if s.Productivity.PlansThisWeek == 0 {
		insights = append(insights, "Ready to start a new project?")
	}

	if s.AvgHoursPerPlan > 100 {
		insights = append(insights, "Large projects detected. Consider breaking them into phases.")
	} else if s.AvgHoursPerPlan > 0 && s.AvgHoursPerPlan < 10 {
		insights = append(insights, "Quick projects are good for building momentum.")
	}

	if s.Productivity.MostProductiveDay != "" {
		insights = append(insights, "Most active on "+s.Productivity.MostProductiveDay+"s.")
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func busiestDay(daily map[string]int) string {
	best := ""
	bestCount := 0
	for day, count := range daily {
		if count > bestCount || (count == bestCount && day < best) {
			best = day
			bestCount = count
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
