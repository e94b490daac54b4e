// Package ical renders a plan's scheduled tasks as an iCalendar document.
package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
)

const (
	prodID     = "-//taskflow//plan-export//EN"
	timeLayout = "20060102T150405Z"
)

// Render produces an RFC 5545 VCALENDAR for the plan. Tasks without a
// start time are skipped.
func Render(plan *models.Plan) string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "X-WR-CALNAME:"+escape(plan.Goal))

	for _, task := range plan.Tasks {
		if task.StartTime == nil {
			continue
		}
		end := task.StartTime.Add(time.Duration(task.EstimatedHours * float64(time.Hour)))
		if task.Deadline != nil {
			end = *task.Deadline
		}

		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, fmt.Sprintf("UID:%s-task-%d@taskflow", plan.ID, task.ID))
		writeLine(&b, "DTSTAMP:"+plan.CreatedAt.UTC().Format(timeLayout))
		writeLine(&b, "DTSTART:"+task.StartTime.UTC().Format(timeLayout))
		writeLine(&b, "DTEND:"+end.UTC().Format(timeLayout))
		writeLine(&b, "SUMMARY:"+escape(task.Title))
		if task.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escape(task.Description))
		}
		writeLine(&b, "CATEGORIES:"+escape(string(task.TaskType)))
		writeLine(&b, "PRIORITY:"+icalPriority(task.Priority))
		writeLine(&b, "STATUS:"+icalStatus(task.Status))
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeLine appends a content line, folding at 75 octets per RFC 5545.
func writeLine(b *strings.Builder, line string) {
	for len(line) > 75 {
		b.WriteString(line[:75])
		b.WriteString("\r\n ")
		line = line[75:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func icalPriority(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "1"
	case models.PriorityLow:
		return "9"
	default:
		return "5"
	}
}

func icalStatus(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusCompleted:
		return "COMPLETED"
	case models.TaskStatusInProgress:
		return "IN-PROCESS"
	default:
		return "NEEDS-ACTION"
	}
}
