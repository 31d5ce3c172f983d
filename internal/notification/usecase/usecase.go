package usecase

import (
	"planora-backend/internal/notification/domain"
)

// NotificationUsecase defines the interface for the activity feed
type NotificationUsecase interface {
	// Notify persists an activity entry and pushes it to the user's open
	// SSE connections. Failures are logged, never surfaced: notifying is
	// always fire-and-forget for the caller.
	Notify(userID, message, severity string)

	// List returns the user's newest notifications plus the unread count.
	List(userID string, limit int) ([]*domain.Notification, int64, error)

	// MarkRead marks one notification as read (with ownership check).
	MarkRead(userID, notificationID string) error

	// MarkAllRead marks every notification of the user as read.
	MarkAllRead(userID string) error

	// Delete removes a notification (with ownership check).
	Delete(userID, notificationID string) error
}
