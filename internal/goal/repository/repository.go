package repository

import (
	"planora-backend/internal/goal/domain"
)

// ListOptions narrows and orders a user's goal listing. The zero value
// returns every goal ordered by target date.
type ListOptions struct {
	// Status keeps only goals in the given state. Nil keeps all.
	Status *domain.GoalStatus

	// Limit and Offset page through the result. Limit <= 0 disables paging.
	Limit  int
	Offset int
}

// GoalRepository defines the interface for goal data access
type GoalRepository interface {
	// Create persists a new goal, assigning ID and timestamps when unset.
	Create(goal *domain.Goal) error

	// FindByID finds a goal by its ID. Returns (nil, nil) when absent.
	FindByID(id string) (*domain.Goal, error)

	// FindByUserID lists a user's goals per opts along with the total count
	// before paging. Goals are ordered by target date with missing dates
	// last.
	FindByUserID(userID string, opts ListOptions) ([]*domain.Goal, int64, error)

	// Update persists the full goal record and bumps UpdatedAt.
	Update(goal *domain.Goal) error

	// Delete removes a goal by ID.
	Delete(id string) error
}
