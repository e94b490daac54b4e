package planner

import (
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
)

const (
	workdayStartHour = 9
	workdayEndHour   = 17
	hoursPerWorkday  = 8.0
)

// Schedule assigns start times and deadlines across an 8-hour Mon-Fri
// working calendar. The default is single-worker sequential: a task never
// starts before the previous task ends, and never before any of its
// dependencies end. Scheduling is idempotent; it derives everything from
// estimated hours and the project start, so re-running replaces the same
// values.
func Schedule(tasks []models.Task, projectStart time.Time) {
	origin := nextWorkingMoment(projectStart)
	ends := make([]time.Time, len(tasks))
	var lastEnd time.Time

	for i := range tasks {
		t := &tasks[i]
		start := origin
		if !lastEnd.IsZero() {
			start = lastEnd
		}
		for _, dep := range t.Dependencies {
			if dep < i && ends[dep].After(start) {
				start = ends[dep]
			}
		}
		start = nextWorkingMoment(start)
		end := addWorkingHours(start, t.EstimatedHours)

		t.ID = i
		st, dl := start, end
		t.StartTime = &st
		t.Deadline = &dl
		ends[i] = end
		lastEnd = end
	}
}

// nextWorkingMoment normalizes a timestamp forward onto the working
// calendar: weekends and evenings roll to the next workday 09:00, early
// mornings snap to 09:00 the same day, and an in-hours moment is returned
// unchanged.
func nextWorkingMoment(t time.Time) time.Time {
	for {
		switch {
		case t.Weekday() == time.Saturday || t.Weekday() == time.Sunday:
			t = morningOf(t.AddDate(0, 0, 1))
		case t.Hour() < workdayStartHour:
			t = morningOf(t)
		case t.Hour() >= workdayEndHour:
			t = morningOf(t.AddDate(0, 0, 1))
		default:
			return t
		}
	}
}

func morningOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), workdayStartHour, 0, 0, 0, t.Location())
}

// addWorkingHours advances from start by the given effort, consuming at
// most the remainder of each 09:00-17:00 workday and skipping weekends.
func addWorkingHours(start time.Time, hours float64) time.Time {
	current := nextWorkingMoment(start)
	remaining := hours

	for remaining > 0 {
		dayEnd := time.Date(current.Year(), current.Month(), current.Day(), workdayEndHour, 0, 0, 0, current.Location())
		capacity := dayEnd.Sub(current).Hours()
		if capacity <= 0 {
			current = nextWorkingMoment(dayEnd)
			continue
		}

		work := remaining
		if work > capacity {
			work = capacity
		}
		current = current.Add(time.Duration(work * float64(time.Hour)))
		remaining -= work

		if remaining > 0 {
			current = nextWorkingMoment(current)
		}
	}
	return current
}
