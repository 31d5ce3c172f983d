package repository

import (
	"planora-backend/internal/notification/domain"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create persists a new notification, assigning ID and timestamp when
	// unset.
	Create(n *domain.Notification) error

	// FindByID finds a notification by its ID. Returns (nil, nil) when
	// absent.
	FindByID(id string) (*domain.Notification, error)

	// FindByUserID lists a user's notifications newest first. Limit <= 0
	// returns all.
	FindByUserID(userID string, limit int) ([]*domain.Notification, error)

	// CountUnread counts the user's unread notifications.
	CountUnread(userID string) (int64, error)

	// MarkRead marks one notification as read.
	MarkRead(id string) error

	// MarkAllRead marks every notification of the user as read.
	MarkAllRead(userID string) error

	// Delete removes a notification by ID.
	Delete(id string) error
}
