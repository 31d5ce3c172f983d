package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotificationNotFound is returned when a notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotificationAccessDenied is returned when a notification belongs to
	// another user.
	ErrNotificationAccessDenied = errors.New("notification access denied")
)

// Severity levels of a notification.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// NormalizeSeverity falls back to info for unknown severities so feed entries
// always render.
func NormalizeSeverity(s string) string {
	switch s {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError:
		return s
	default:
		return SeverityInfo
	}
}

// Notification is one entry in a user's activity feed.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Message   string    `json:"message" gorm:"not null"`
	Severity  string    `json:"severity" gorm:"default:info"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}
