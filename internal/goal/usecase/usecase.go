package usecase

import (
	"planora-backend/internal/goal/domain"
	"planora-backend/internal/query"
)

// GoalUsecase defines the interface for goal business logic
type GoalUsecase interface {
	// CreateGoal creates a new goal with its initial milestones
	CreateGoal(userID string, req GoalCreateRequest) (*domain.Goal, error)

	// GetGoalByID retrieves a goal by ID (with ownership check)
	GetGoalByID(userID, goalID string) (*domain.Goal, error)

	// ListGoals runs the filter/sort/search pipeline over the user's goals
	// and pages the result. The returned count is the filtered total.
	ListGoals(userID string, filter query.GoalFilter, limit, offset int) ([]*domain.Goal, int64, error)

	// UpdateGoal updates an existing goal; replacing the milestone list
	// rederives progress
	UpdateGoal(userID, goalID string, updates GoalUpdateRequest) (*domain.Goal, error)

	// ToggleMilestone flips one milestone's completion and rederives
	// progress
	ToggleMilestone(userID, goalID, milestoneID string) (*domain.Goal, error)

	// DeleteGoal deletes a goal
	DeleteGoal(userID, goalID string) error

	// SetNotifier sets the recorder for user-facing activity notifications
	SetNotifier(n Notifier)

	// SetRelay sets the cross-instance change publisher
	SetRelay(r ChangePublisher)
}

// MilestoneInput carries one milestone in a create or update request
type MilestoneInput struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"due_date"`
}

// GoalCreateRequest represents the request body for creating a goal
type GoalCreateRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Priority    string           `json:"priority"`
	TargetDate  *string          `json:"target_date"`
	Milestones  []MilestoneInput `json:"milestones"`
}

// GoalUpdateRequest represents the fields that can be updated
type GoalUpdateRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Priority    *string           `json:"priority,omitempty"`
	TargetDate  *string           `json:"target_date,omitempty"`
	Progress    *int              `json:"progress,omitempty"`
	Milestones  *[]MilestoneInput `json:"milestones,omitempty"`
}

// Notifier records user-facing activity notifications
type Notifier interface {
	Notify(userID, message, severity string)
}

// ChangePublisher broadcasts data changes to other running instances
type ChangePublisher interface {
	PublishChange(userID, kind string)
}
