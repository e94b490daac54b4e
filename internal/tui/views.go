package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	switch a.mode {
	case "plans":
		b.WriteString(a.renderPlans())
	case "tasks":
		b.WriteString(a.renderTasks())
	case "detail":
		b.WriteString(a.renderDetail())
	case "suggestions":
		b.WriteString(a.renderSuggestions())
	case "new":
		b.WriteString(a.renderNewPlan())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("taskflow")
	crumb := ""
	switch a.mode {
	case "tasks", "detail", "suggestions":
		if a.currentPlan != nil {
			crumb = helpStyle.Render(" > " + truncate(a.currentPlan.Goal, 60))
		}
	}
	return title + crumb
}

func (a *App) renderPlans() string {
	if a.loading {
		return itemStyle.Render("Loading plans...")
	}
	if len(a.plans) == 0 {
		return itemStyle.Render("No plans yet. Use `taskflow plan generate` to create one.")
	}

	var b strings.Builder
	for i, p := range a.plans {
		line := fmt.Sprintf("%-40s  %-12s  %2d/%2d tasks  %5.1fh  %s",
			truncate(p.Goal, 40), p.Timeframe, p.Completed, p.TaskCount, p.TotalHours, p.CreatedAt)
		if i == a.planIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTasks() string {
	if a.loading {
		return itemStyle.Render("Loading tasks...")
	}
	if len(a.tasks) == 0 {
		return itemStyle.Render("No tasks in this plan.")
	}

	var b strings.Builder
	for i, t := range a.tasks {
		line := fmt.Sprintf("%s %2d. %-40s  %-8s  %5.1fh  %s",
			statusIcon(t.Status), t.ID, truncate(t.Title, 40), t.Priority, t.EstimatedHours, t.Start)
		if i == a.taskIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(statusStyle(t.Status).Render(line)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderDetail() string {
	if len(a.tasks) == 0 || a.taskIdx >= len(a.tasks) {
		return itemStyle.Render("No task selected.")
	}
	t := a.tasks[a.taskIdx]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Task %d: %s\n\n", t.ID, t.Title))
	if t.Description != "" {
		b.WriteString(t.Description + "\n\n")
	}
	b.WriteString(fmt.Sprintf("Status:    %s\n", t.Status))
	b.WriteString(fmt.Sprintf("Priority:  %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Type:      %s\n", t.TaskType))
	b.WriteString(fmt.Sprintf("Estimate:  %.1fh\n", t.EstimatedHours))
	if len(t.Dependencies) > 0 {
		deps := make([]string, len(t.Dependencies))
		for i, d := range t.Dependencies {
			deps[i] = fmt.Sprintf("%d", d)
		}
		b.WriteString(fmt.Sprintf("Depends:   %s\n", strings.Join(deps, ", ")))
	}
	if t.Start != "" {
		b.WriteString(fmt.Sprintf("Starts:    %s\n", t.Start))
	}
	if t.Deadline != "" {
		b.WriteString(fmt.Sprintf("Deadline:  %s\n", t.Deadline))
	}
	if t.Notes != "" {
		b.WriteString("\nNotes: " + t.Notes + "\n")
	}
	return panelStyle.Render(b.String())
}

func (a *App) renderSuggestions() string {
	if a.loading {
		return itemStyle.Render("Loading suggestions...")
	}
	if len(a.suggestions) == 0 {
		return itemStyle.Render("Nothing actionable right now.")
	}

	var b strings.Builder
	b.WriteString(itemStyle.Render("Suggested next tasks:") + "\n\n")
	for _, s := range a.suggestions {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%2d. %-40s  %-8s  %5.1fh", s.TaskID, truncate(s.Title, 40), s.Priority, s.Hours)))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(helpStyle.Render("    " + s.Reason)))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderNewPlan() string {
	if a.loading {
		return itemStyle.Render("Generating plan, this can take a minute...")
	}

	var b strings.Builder
	if a.inputStage == "goal" {
		b.WriteString("Goal:\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Goal: %s\n\nTimeframe:\n\n", truncate(a.pendingGoal, 60)))
	}
	b.WriteString(a.input.View())
	return panelStyle.Render(b.String())
}

func (a *App) renderStatusBar() string {
	daemon := doneStyle.Render("● online")
	if !a.daemonOnline {
		daemon = blockedStyle.Render("● offline")
	}

	var help string
	switch a.mode {
	case "plans":
		help = "↑/↓ navigate • enter open • n new • s suggestions • d delete • r refresh • q quit"
	case "new":
		help = "enter confirm • esc cancel"
	case "tasks":
		help = "↑/↓ navigate • enter detail • space cycle status • s suggestions • esc back • q quit"
	case "detail":
		help = "esc back • q quit"
	case "suggestions":
		help = "esc back • q quit"
	}

	left := statusBarStyle.Render(daemon)
	right := helpStyle.Render(help)
	msg := ""
	if a.message != "" {
		msg = "  " + activeStyle.Render(a.message)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, left, msg, "  ", right)
}

func statusIcon(status string) string {
	switch status {
	case "completed":
		return "✓"
	case "in_progress":
		return "▶"
	case "blocked":
		return "✗"
	default:
		return "○"
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return doneStyle
	case "in_progress":
		return activeStyle
	case "blocked":
		return blockedStyle
	default:
		return lipgloss.NewStyle()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
