package tui

// PlanItem is a summary of a plan for the list view
type PlanItem struct {
	ID         string
	Goal       string
	Timeframe  string
	TaskCount  int
	Completed  int
	TotalHours float64
	CreatedAt  string
}

// TaskRow is one task row within a plan
type TaskRow struct {
	ID             int
	Title          string
	Description    string
	Status         string
	Priority       string
	TaskType       string
	EstimatedHours float64
	Dependencies   []int
	Start          string
	Deadline       string
	Notes          string
}

// SuggestionItem is one recommended next task
type SuggestionItem struct {
	TaskID   int     `json:"id"`
	Title    string  `json:"title"`
	Priority string  `json:"priority"`
	Hours    float64 `json:"estimated_hours"`
	Reason   string  `json:"reason"`
}
