package cleaning

import "time"

// TaskStatus is the housekeeping task state.
type TaskStatus string

// Task states.
const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Task is a housekeeping job for one room on one day.
type Task struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"room_id"`
	RoomNumber string     `json:"room_number,omitempty"`
	DueDate    time.Time  `json:"due_date"`
	Status     TaskStatus `json:"status"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ValidStatus reports whether the status is one of the known states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}
