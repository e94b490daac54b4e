package planner

import (
	"regexp"
	"strings"
)

var (
	jsonTitleRe = regexp.MustCompile(`"title"\s*:\s*"([^"]+)"`)
	jsonDescRe  = regexp.MustCompile(`"description"\s*:\s*"([^"]+)"`)
	listItemRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d+\.\s*(.+)$`),
		regexp.MustCompile(`^[-*]\s*(.+)$`),
		regexp.MustCompile(`^•\s*(.+)$`),
	}
	titleCleanRe = regexp.MustCompile(`[^\w\s\-\(\)]`)
)

// FallbackPlan builds a usable plan when the model response is beyond
// repair. Task-like lines are scraped from the raw content first; when
// nothing can be scraped, a goal-keyed template plan is produced instead.
func FallbackPlan(content, goal string) *rawPlan {
	var tasks []rawTask

	scrape := func(title string) {
		if len(title) <= 5 || len(title) >= 100 {
			return
		}
		tasks = append(tasks, rawTask{
			Title:          title,
			Description:    "Complete " + strings.ToLower(title),
			EstimatedHours: 4.0,
			Complexity:     "moderate",
			TaskType:       "implementation",
			Priority:       "medium",
			Dependencies:   []any{},
		})
	}

	for _, re := range []*regexp.Regexp{jsonTitleRe, jsonDescRe} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			scrape(m[1])
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 10 {
			continue
		}
		for _, re := range listItemRes {
			if m := re.FindStringSubmatch(line); m != nil {
				title := strings.TrimSpace(titleCleanRe.ReplaceAllString(m[1], ""))
				scrape(title)
				break
			}
		}
	}

	if len(tasks) == 0 {
		tasks = templateTasks(goal)
	}
	return &rawPlan{Tasks: tasks}
}

// templateTasks returns a canned plan skeleton keyed on the goal wording.
func templateTasks(goal string) []rawTask {
	goalLower := strings.ToLower(goal)
	if containsAny(goalLower, []string{"website", "web", "app", "application"}) {
		return []rawTask{
			{Title: "Setup development environment", Description: "Install and configure necessary tools and frameworks", EstimatedHours: 4.0, Complexity: "simple", TaskType: "deployment", Priority: "high", Dependencies: []any{}},
			{Title: "Design user interface", Description: "Create wireframes and design mockups", EstimatedHours: 8.0, Complexity: "moderate", TaskType: "design", Priority: "high", Dependencies: []any{0.0}},
			{Title: "Implement core functionality", Description: "Develop the main features and functionality", EstimatedHours: 16.0, Complexity: "complex", TaskType: "implementation", Priority: "high", Dependencies: []any{0.0, 1.0}},
			{Title: "Testing and debugging", Description: "Test the application and fix any issues", EstimatedHours: 6.0, Complexity: "moderate", TaskType: "testing", Priority: "medium", Dependencies: []any{2.0}},
			{Title: "Deploy and document", Description: "Deploy the application and create documentation", EstimatedHours: 4.0, Complexity: "simple", TaskType: "deployment", Priority: "medium", Dependencies: []any{3.0}},
		}
	}
	return []rawTask{
		{Title: "Research and planning", Description: "Research requirements and create project plan", EstimatedHours: 4.0, Complexity: "moderate", TaskType: "research", Priority: "high", Dependencies: []any{}},
		{Title: "Initial setup", Description: "Set up project structure and tools", EstimatedHours: 4.0, Complexity: "simple", TaskType: "deployment", Priority: "high", Dependencies: []any{0.0}},
		{Title: "Core development", Description: "Develop the main functionality", EstimatedHours: 12.0, Complexity: "complex", TaskType: "implementation", Priority: "high", Dependencies: []any{1.0}},
		{Title: "Testing and refinement", Description: "Test the solution and make improvements", EstimatedHours: 6.0, Complexity: "moderate", TaskType: "testing", Priority: "medium", Dependencies: []any{2.0}},
		{Title: "Final review and documentation", Description: "Review the work and create documentation", EstimatedHours: 3.0, Complexity: "simple", TaskType: "documentation", Priority: "low", Dependencies: []any{3.0}},
	}
}
