package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusPending    = "PENDING"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task is a user-owned work item. CalendarEventID is set once the task has
// been scheduled into the owner's Google calendar.
type Task struct {
	TaskID          uuid.UUID
	UserID          uuid.UUID
	Title           string
	Description     string
	Status          string
	DueDate         *time.Time
	CalendarEventID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidTaskStatus reports whether the given status is one of the known states.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
