// Package tui provides the interactive terminal UI for taskflow.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	doneStyle    = lipgloss.NewStyle().Foreground(successColor)
	blockedStyle = lipgloss.NewStyle().Foreground(errorColor)
	activeStyle  = lipgloss.NewStyle().Foreground(warningColor)
)

// App is the main TUI application model.
type App struct {
	client       *Client
	plans        []PlanItem
	tasks        []TaskRow
	suggestions  []SuggestionItem
	planIdx      int
	taskIdx      int
	currentPlan  *PlanItem
	width        int
	height       int
	mode         string // "plans", "tasks", "detail", "suggestions", "new"
	input        textinput.Model
	inputStage   string // "goal", "timeframe"
	pendingGoal  string
	message      string
	loading      bool
	daemonOnline bool
}

// statusCycle is the order task statuses advance through on space.
var statusCycle = []string{"todo", "in_progress", "completed", "blocked"}

// New creates a new TUI application.
func New(apiAddr string) *App {
	return &App{
		client: NewClient(apiAddr),
		mode:   "plans",
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchPlans(),
		a.checkDaemon(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.mode == "new" {
			return a.updateInput(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit

		case "n":
			if a.mode == "plans" {
				a.mode = "new"
				a.inputStage = "goal"
				a.pendingGoal = ""
				a.message = ""
				a.input = textinput.New()
				a.input.Placeholder = "What do you want to get done?"
				a.input.Focus()
				a.input.Width = 60
				return a, textinput.Blink
			}

		case "esc":
			switch a.mode {
			case "tasks", "suggestions":
				a.mode = "plans"
				a.currentPlan = nil
				return a, a.fetchPlans()
			case "detail":
				a.mode = "tasks"
			}

		case "up", "k":
			if a.mode == "plans" && a.planIdx > 0 {
				a.planIdx--
			} else if a.mode == "tasks" && a.taskIdx > 0 {
				a.taskIdx--
			}

		case "down", "j":
			if a.mode == "plans" && a.planIdx < len(a.plans)-1 {
				a.planIdx++
			} else if a.mode == "tasks" && a.taskIdx < len(a.tasks)-1 {
				a.taskIdx++
			}

		case "enter":
			if a.mode == "plans" && len(a.plans) > 0 {
				plan := a.plans[a.planIdx]
				a.currentPlan = &plan
				a.mode = "tasks"
				a.taskIdx = 0
				return a, a.fetchTasks(plan.ID)
			} else if a.mode == "tasks" && len(a.tasks) > 0 {
				a.mode = "detail"
			}

		case " ":
			if a.mode == "tasks" && len(a.tasks) > 0 && a.currentPlan != nil {
				task := a.tasks[a.taskIdx]
				return a, a.advanceStatus(a.currentPlan.ID, task.ID, task.Status)
			}

		case "s":
			if (a.mode == "tasks" || a.mode == "plans") && a.currentPlanID() != "" {
				a.mode = "suggestions"
				return a, a.fetchSuggestions(a.currentPlanID())
			}

		case "d":
			if a.mode == "plans" && len(a.plans) > 0 {
				return a, a.deletePlan(a.plans[a.planIdx].ID)
			}

		case "r":
			switch a.mode {
			case "plans":
				return a, a.fetchPlans()
			case "tasks":
				if a.currentPlan != nil {
					return a, a.fetchTasks(a.currentPlan.ID)
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case plansLoadedMsg:
		a.loading = false
		a.plans = msg.plans
		if a.planIdx >= len(a.plans) {
			a.planIdx = 0
		}

	case tasksLoadedMsg:
		a.loading = false
		a.tasks = msg.tasks
		if a.taskIdx >= len(a.tasks) {
			a.taskIdx = 0
		}

	case suggestionsLoadedMsg:
		a.loading = false
		a.suggestions = msg.suggestions

	case statusChangedMsg:
		if a.currentPlan != nil {
			return a, a.fetchTasks(a.currentPlan.ID)
		}

	case planDeletedMsg:
		a.message = "Plan deleted"
		return a, a.fetchPlans()

	case planCreatedMsg:
		a.loading = false
		a.mode = "plans"
		a.message = "Plan created"
		return a, a.fetchPlans()

	case daemonStatusMsg:
		a.daemonOnline = bool(msg)

	case errMsg:
		a.loading = false
		a.message = msg.err.Error()
	}

	return a, nil
}

func (a *App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.loading {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = "plans"
		return a, nil

	case "enter":
		value := a.input.Value()
		if a.inputStage == "goal" {
			if value == "" {
				return a, nil
			}
			a.pendingGoal = value
			a.inputStage = "timeframe"
			a.input = textinput.New()
			a.input.Placeholder = "1 week"
			a.input.Focus()
			a.input.Width = 60
			return a, textinput.Blink
		}
		timeframe := value
		if timeframe == "" {
			timeframe = "1 week"
		}
		a.loading = true
		return a, a.generatePlan(a.pendingGoal, timeframe)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) currentPlanID() string {
	if a.currentPlan != nil {
		return a.currentPlan.ID
	}
	if a.mode == "plans" && len(a.plans) > 0 {
		return a.plans[a.planIdx].ID
	}
	return ""
}

// --- Messages ---

type plansLoadedMsg struct{ plans []PlanItem }
type tasksLoadedMsg struct{ tasks []TaskRow }
type suggestionsLoadedMsg struct{ suggestions []SuggestionItem }
type statusChangedMsg struct{}
type planDeletedMsg struct{}
type planCreatedMsg struct{ id string }
type daemonStatusMsg bool
type errMsg struct{ err error }

// --- Commands ---

func (a *App) fetchPlans() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		plans, err := a.client.ListPlans()
		if err != nil {
			return errMsg{err}
		}
		return plansLoadedMsg{plans}
	}
}

func (a *App) fetchTasks(planID string) tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		tasks, err := a.client.GetPlanTasks(planID)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (a *App) fetchSuggestions(planID string) tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		suggestions, err := a.client.GetSuggestions(planID)
		if err != nil {
			return errMsg{err}
		}
		return suggestionsLoadedMsg{suggestions}
	}
}

func (a *App) advanceStatus(planID string, taskID int, current string) tea.Cmd {
	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == current {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}
	return func() tea.Msg {
		if err := a.client.SetTaskStatus(planID, taskID, next); err != nil {
			return errMsg{err}
		}
		return statusChangedMsg{}
	}
}

func (a *App) generatePlan(goal, timeframe string) tea.Cmd {
	return func() tea.Msg {
		id, err := a.client.GeneratePlan(goal, timeframe)
		if err != nil {
			return errMsg{err}
		}
		return planCreatedMsg{id}
	}
}

func (a *App) deletePlan(planID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.client.DeletePlan(planID); err != nil {
			return errMsg{err}
		}
		return planDeletedMsg{}
	}
}

func (a *App) checkDaemon() tea.Cmd {
	return func() tea.Msg {
		ok, err := a.client.CheckHealth()
		if err != nil {
			return daemonStatusMsg(false)
		}
		return daemonStatusMsg(ok)
	}
}
