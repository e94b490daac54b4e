package planner

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/models"
)

const (
	// Utilization band relative to the timeframe's available hours.
	minUtilization = 0.80
	maxUtilization = 1.20

	// Compressing below 0.8 would imply faster-than-sustainable
	// execution. Expansion is unbounded: padding an under-scoped plan
	// up to the band is always possible.
	minScaleFactor = 0.8

	// Tolerance for float accumulation when checking the band, about
	// half a minute of work.
	complianceTolerance = 0.01
)

var digitsRe = regexp.MustCompile(`\d+`)

// ParseTimeframeDays converts a human timeframe like "2 weeks" or
// "1 month" into days. Unit-less numbers up to 31 are read as days and up
// to 52 as weeks. Unparseable input defaults to a week.
func ParseTimeframeDays(timeframe string) int {
	tf := strings.ToLower(strings.TrimSpace(timeframe))
	if tf == "" {
		return 7
	}

	leadingNum := func(def int) int {
		fields := strings.Fields(tf)
		if len(fields) == 0 {
			return def
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return def
		}
		return n
	}

	switch {
	case strings.Contains(tf, "year"):
		return leadingNum(1) * 365
	case strings.Contains(tf, "month"):
		return leadingNum(1) * 30
	case strings.Contains(tf, "week"):
		return leadingNum(1) * 7
	case strings.Contains(tf, "day"):
		if fields := strings.Fields(tf); len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				return n
			}
		}
		return 7
	}

	if m := digitsRe.FindString(tf); m != "" {
		n, _ := strconv.Atoi(m)
		switch {
		case n <= 31:
			return n
		case n <= 52:
			return n * 7
		default:
			return n
		}
	}
	return 7
}

// TimeframeHours is the working-hour budget of a timeframe.
func TimeframeHours(timeframe string) float64 {
	return float64(ParseTimeframeDays(timeframe)) * hoursPerWorkday
}

// TimeframeError reports a plan whose total effort cannot realistically be
// scaled into the timeframe's utilization band.
type TimeframeError struct {
	Timeframe      string
	TotalHours     float64
	AvailableHours float64
	Kind           string // "too much work" or "too little work"
	Suggestion     string
}

func (e *TimeframeError) Error() string {
	return fmt.Sprintf(
		"cannot generate tasks within timeframe %q: %.1fh of tasks but %s for %.0fh available (valid range: %.0fh - %.0fh); try: %s",
		e.Timeframe, e.TotalHours, e.Kind, e.AvailableHours,
		e.AvailableHours*minUtilization, e.AvailableHours*maxUtilization,
		e.Suggestion,
	)
}

const (
	shrinkSuggestion = "1) extend timeframe, 2) simplify goal, 3) remove constraints, or 4) break goal into smaller phases"
	expandSuggestion = "1) expand goal scope, 2) add more detailed tasks, 3) include research/planning phases, or 4) consider if goal is too simple for this timeframe"
)

// CompliesWithTimeframe reports whether the plan's total effort sits inside
// the 80%-120% utilization band of the timeframe.
func CompliesWithTimeframe(tasks []models.Task, timeframe string) bool {
	if timeframe == "" || len(tasks) == 0 {
		return true
	}
	available := TimeframeHours(timeframe)
	total := totalEstimatedHours(tasks)
	return total >= available*minUtilization-complianceTolerance &&
		total <= available*maxUtilization+complianceTolerance
}

// EnforceTimeframe scales task hours in place to bring the plan into the
// timeframe's utilization band, weighted by priority so high-priority
// tasks keep more of their size. Returns a TimeframeError, leaving hours
// untouched, when the required compression is below the realistic bound;
// returns one after scaling when priority weighting leaves the total
// outside the band.
func EnforceTimeframe(tasks []models.Task, timeframe string) error {
	if CompliesWithTimeframe(tasks, timeframe) {
		return nil
	}

	available := TimeframeHours(timeframe)
	total := totalEstimatedHours(tasks)
	minAllowed := available * minUtilization
	maxAllowed := available * maxUtilization

	if total > maxAllowed {
		factor := maxAllowed / total
		if factor < minScaleFactor {
			return &TimeframeError{
				Timeframe:      timeframe,
				TotalHours:     total,
				AvailableHours: available,
				Kind:           "too much work",
				Suggestion:     shrinkSuggestion,
			}
		}
		scaleTasks(tasks, factor, false)
	} else {
		scaleTasks(tasks, minAllowed/total, true)
	}

	if !CompliesWithTimeframe(tasks, timeframe) {
		total = totalEstimatedHours(tasks)
		kind, suggestion := "too much work", shrinkSuggestion
		if total < minAllowed {
			kind, suggestion = "too little work", expandSuggestion
		}
		return &TimeframeError{
			Timeframe:      timeframe,
			TotalHours:     total,
			AvailableHours: available,
			Kind:           kind,
			Suggestion:     suggestion,
		}
	}
	return nil
}

// scaleTasks applies one scale factor per task with priority weighting:
// high-priority tasks take 10% less of the effect, low-priority 10% more.
// When shrinking, tasks over 8h compress an extra 5%; when expanding,
// tasks under 4h grow an extra 5%. Hours never drop below 1.
func scaleTasks(tasks []models.Task, factor float64, expanding bool) {
	for i := range tasks {
		t := &tasks[i]
		scale := factor
		switch t.Priority {
		case models.PriorityHigh:
			scale *= 1.1
		case models.PriorityLow:
			scale *= 0.9
		}
		if expanding {
			if t.EstimatedHours < 4 {
				scale *= 1.05
			}
		} else {
			if t.EstimatedHours > 8 {
				scale *= 0.95
			}
		}

		hours := t.EstimatedHours * scale
		if hours < 1.0 {
			hours = 1.0
		}
		t.EstimatedHours = math.Round(hours*10) / 10
	}
}

func totalEstimatedHours(tasks []models.Task) float64 {
	var total float64
	for _, t := range tasks {
		total += t.EstimatedHours
	}
	return total
}
