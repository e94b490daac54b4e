package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// SystemPrompt instructs the model to act as a project planner and emit
// bare JSON in the shape rawPlan decodes.
const SystemPrompt = `You are an expert project manager and task planning assistant. Your role is to break down high-level goals into specific, actionable tasks with realistic timelines and dependencies.

RULES:
1. Create concrete, actionable tasks starting with action verbs (Create, Design, Implement, Test, Deploy, etc.)
2. Each task should be completable within the estimated hours, measurable, and specific.
3. CLASSIFY each task by complexity and work type, then apply REALISTIC estimates:

TASK COMPLEXITY LEVELS:
- SIMPLE: Basic tasks, familiar tools, clear requirements (multiplier: 1.0x)
- MODERATE: Some learning required, moderate scope, standard complexity (multiplier: 1.5x)
- COMPLEX: New technologies, large scope, integration challenges (multiplier: 2.5x)
- EXPERT: Cutting-edge work, high risk, multiple systems (multiplier: 4.0x)

4. Identify dependencies logically: design before implementation, setup before development, testing after development. Dependencies reference earlier task indices only.
5. Assign priority levels with REALISTIC DISTRIBUTION:
   - high (20-30% of tasks): only truly critical blockers and core functionality
   - medium (50-60% of tasks): important features and standard development work
   - low (20-30% of tasks): polish, documentation, optimization
6. Order tasks logically (prerequisites first).
7. STRICT TIMEFRAME ADHERENCE: you MUST respect the user's specified timeframe exactly.

OUTPUT FORMAT:
Return ONLY valid JSON (no markdown, no code blocks, no explanation):
{
  "tasks": [
    {
      "title": "Action verb + specific outcome",
      "description": "Detailed 1-2 sentence description of what needs to be done and why",
      "estimated_hours": 4.0,
      "complexity_level": "moderate",
      "task_type": "implementation",
      "priority": "high",
      "dependencies": []
    }
  ]
}

REQUIRED FIELDS FOR EACH TASK:
- title: specific, actionable task description
- description: 1-2 sentences explaining what and why
- estimated_hours: realistic hours including overhead (rounded to 0.5h increments)
- complexity_level: "simple", "moderate", "complex", or "expert"
- task_type: "research", "design", "implementation", "testing", "deployment", or "documentation"
- priority: "high", "medium", or "low"
- dependencies: array of task indices (0-based)

TIMEFRAME CALCULATION GUIDE:
- 1 day = 8 working hours, 1 week = 40 working hours, 1 month = 160 working hours
- When a timeframe is specified, aim to utilize 80-100% of the available working hours
- Your response will be rejected if it does not utilize at least 80% of available time

IMPORTANT CONSTRAINTS:
- Generate 15-20 tasks depending on goal complexity and available timeframe
- First task must have empty dependencies []
- Dependencies must reference earlier task indices (0-indexed)
- Total estimated hours MUST fit within the specified timeframe
- Each description should be 50-200 characters
- Mix of short (1-3h), medium (3-8h), and long (8-24h) tasks with varied estimates`

// BuildUserPrompt assembles the per-request prompt: the goal, explicit
// hour-budget targets derived from the timeframe, and hints derived from
// each constraint.
func BuildUserPrompt(req models.PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n\n", req.Goal)

	if req.Timeframe != "" {
		fmt.Fprintf(&b, "TIMEFRAME CONSTRAINT: %s\n", req.Timeframe)
		fmt.Fprintf(&b, "CRITICAL: You MUST generate tasks that can be completed within %s\n", req.Timeframe)
		fmt.Fprintf(&b, "Calculate total estimated hours and ensure they don't exceed %s\n", req.Timeframe)
	} else {
		b.WriteString("Timeframe: Not specified (assume flexible timeline)\n")
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	fmt.Fprintf(&b, "Start Date: %s\n", start.Format("2006-01-02"))

	if c := req.Constraints; c != nil {
		b.WriteString("\nConstraints:\n")
		if c.TeamSize > 0 {
			switch {
			case c.TeamSize == 1:
				fmt.Fprintf(&b, "- Team size: %d person (sequential tasks, no coordination overhead)\n", c.TeamSize)
			case c.TeamSize <= 3:
				fmt.Fprintf(&b, "- Team size: %d people (some parallelization possible, add 5-10%% coordination overhead)\n", c.TeamSize)
			default:
				fmt.Fprintf(&b, "- Team size: %d people (high parallelization, add 10-15%% coordination overhead)\n", c.TeamSize)
			}
		}
		if c.ExperienceLevel != "" {
			switch strings.ToLower(c.ExperienceLevel) {
			case "beginner":
				fmt.Fprintf(&b, "- Experience level: %s (use 1.5x time multiplier for learning curve, simpler tasks)\n", c.ExperienceLevel)
			case "advanced":
				fmt.Fprintf(&b, "- Experience level: %s (use 0.8x time multiplier for efficiency)\n", c.ExperienceLevel)
			default:
				fmt.Fprintf(&b, "- Experience level: %s (use baseline 1.0x time multiplier)\n", c.ExperienceLevel)
			}
		}
		if len(c.TechnicalStack) > 0 {
			fmt.Fprintf(&b, "- Technical stack: %s (adjust complexity based on team familiarity)\n", strings.Join(c.TechnicalStack, ", "))
		}
	}

	b.WriteString("\nBreak this goal into actionable tasks following all rules above.\n")
	b.WriteString("Focus on creating a realistic, executable plan with clear dependencies.\n")

	if req.Timeframe != "" {
		days := ParseTimeframeDays(req.Timeframe)
		available := float64(days) * hoursPerWorkday
		fmt.Fprintf(&b, "\nTIMEFRAME CONSTRAINT: %s (%d days = %.0f working hours)\n", req.Timeframe, days, available)
		fmt.Fprintf(&b, "UTILIZATION TARGET: Generate tasks that use 80-100%% of available time (%.0f-%.0f hours)\n", available*0.8, available)
		fmt.Fprintf(&b, "MAXIMUM LIMIT: Total estimated_hours must NOT exceed %.0f hours\n", available*1.2)
		fmt.Fprintf(&b, "OPTIMAL RANGE: Aim for %.0f-%.0f hours for full utilization\n", available*0.9, available)
		b.WriteString("Expand goal scope if needed to make full use of the timeframe.\n")
		b.WriteString("Include comprehensive phases: research, planning, implementation, testing, deployment.\n")
	}

	return b.String()
}
