package usecase

import (
	"planora-backend/internal/query"
	"planora-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// CreateTask creates a new task for the user
	CreateTask(userID string, req TaskCreateRequest) (*domain.Task, error)

	// GetTaskByID retrieves a task by ID (with ownership check)
	GetTaskByID(userID, taskID string) (*domain.Task, error)

	// ListTasks runs the filter/sort/search pipeline over the user's tasks
	// and pages the result. The returned count is the filtered total, not
	// the page size.
	ListTasks(userID string, filter query.TaskFilter, limit, offset int) ([]*domain.Task, int64, error)

	// UpdateTask updates an existing task
	UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)

	// UpdateStatus transitions a task's status, keeping CompletedAt in sync
	UpdateStatus(userID, taskID, status string) (*domain.Task, error)

	// Reschedule moves (or clears) a task's due date
	Reschedule(userID, taskID string, dueDate *string) (*domain.Task, error)

	// DeleteTask deletes a task
	DeleteTask(userID, taskID string) error

	// SearchTasks ranks the user's tasks against a free-text query
	SearchTasks(userID, text string, limit int) ([]SearchResult, error)

	// SetNotifier sets the recorder for user-facing activity notifications
	SetNotifier(n Notifier)

	// SetRelay sets the cross-instance change publisher
	SetRelay(r ChangePublisher)
}

// TaskCreateRequest represents the request body for creating a task
type TaskCreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	DueDate     *string  `json:"due_date"`
	ReminderAt  *string  `json:"reminder_at"`
	Priority    string   `json:"priority"`
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	ReminderAt  *string   `json:"reminder_at,omitempty"`
}

// SearchResult pairs a task with its relevance score
type SearchResult struct {
	Task  *domain.Task `json:"task"`
	Score float64      `json:"score"`
}

// Notifier records user-facing activity notifications
type Notifier interface {
	Notify(userID, message, severity string)
}

// ChangePublisher broadcasts data changes to other running instances
type ChangePublisher interface {
	PublishChange(userID, kind string)
}
