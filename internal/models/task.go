package models

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID     string
	UserID string
	Title  string
	Course string
	// DueAt is a sortable "YYYY-MM-DD HH:MM:SS" timestamp on write;
	// reads come back formatted as "YYYY-MM-DD HH:MM".
	DueAt    string
	Priority string
	Status   string
}
