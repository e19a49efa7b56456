package models

import "time"

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// Statuses lists every known task status in display order.
var Statuses = []string{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusOverdue,
}

// IsValidStatus reports whether s is one of the known task statuses.
// Transitions between statuses are not restricted; any known status
// may replace any other.
func IsValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

type Task struct {
	ID          int64
	Title       string
	Description string
	Deadline    time.Time
	Status      string
	CreatedAt   time.Time
	AssigneeID  string
}
