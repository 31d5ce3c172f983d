package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAccessDenied is returned when a task belongs to another user.
	ErrTaskAccessDenied = errors.New("task access denied")
	// ErrTitleRequired rejects create/update requests with a blank title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidTimestamp rejects date fields that are not RFC3339.
	ErrInvalidTimestamp = errors.New("invalid timestamp, expected RFC3339")
	// ErrInvalidPriority rejects unknown priority values.
	ErrInvalidPriority = errors.New("priority must be high, medium or low")
	// ErrInvalidStatus rejects unknown status values.
	ErrInvalidStatus = errors.New("status must be pending, in_progress or completed")
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight orders priorities for sorting, highest first.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// StringArray is a custom type to handle JSON array in GORM
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Task represents a to-do item owned by a single user
type Task struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	UserID       string      `json:"user_id" gorm:"index;not null"`
	Title        string      `json:"title" gorm:"not null"`
	Description  string      `json:"description,omitempty"`
	Category     string      `json:"category,omitempty" gorm:"index"`
	Tags         StringArray `json:"tags,omitempty" gorm:"type:text"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	Priority     Priority    `json:"priority" gorm:"default:medium"`
	Status       TaskStatus  `json:"status" gorm:"default:pending"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`             // Set exactly while status is completed
	ReminderAt   *time.Time  `json:"reminder_at,omitempty"`              // When to send FCM reminder
	ReminderSent bool        `json:"reminder_sent" gorm:"default:false"` // Track if reminder was sent
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// SetStatus transitions the task and keeps CompletedAt in sync: it is
// stamped on entering completed and cleared on leaving it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskStatusCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// OverdueAt reports whether the task's due date has passed ref without the
// task being completed.
func (t *Task) OverdueAt(ref time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(ref) && t.Status != TaskStatusCompleted
}
