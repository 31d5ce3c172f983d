package repository

import (
	"time"

	"planora-backend/internal/task/domain"
)

// ListOptions narrows and orders a user's task listing. The zero value
// returns every task ordered by due date.
type ListOptions struct {
	// Status keeps only tasks in the given state. Nil keeps all.
	Status *domain.TaskStatus

	// OrderBy is the ordering key: OrderByDueDate (default, missing due
	// dates last) or OrderByCreatedAt (newest first).
	OrderBy string

	// Limit and Offset page through the result. Limit <= 0 disables paging.
	Limit  int
	Offset int
}

// Ordering keys accepted by ListOptions.OrderBy.
const (
	OrderByDueDate   = "due_date"
	OrderByCreatedAt = "created_at"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task, assigning ID and timestamps when unset.
	Create(task *domain.Task) error

	// FindByID finds a task by its ID. Returns (nil, nil) when absent.
	FindByID(id string) (*domain.Task, error)

	// FindByUserID lists a user's tasks per opts along with the total count
	// before paging.
	FindByUserID(userID string, opts ListOptions) ([]*domain.Task, int64, error)

	// Update persists the full task record and bumps UpdatedAt.
	Update(task *domain.Task) error

	// Delete removes a task by ID.
	Delete(id string) error

	// FindPendingReminders returns tasks whose reminder is due: reminder_at
	// <= now, not yet sent, and not completed.
	FindPendingReminders(now time.Time) ([]*domain.Task, error)

	// MarkReminderSent marks a task's reminder as sent.
	MarkReminderSent(id string) error
}
