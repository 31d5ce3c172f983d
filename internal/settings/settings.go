// Package settings stores per-user UI preferences: the global knobs the
// client applies across views, like theme, the default analytics period, and
// the default task ordering.
package settings

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPreferences rejects a preferences payload with out-of-range
// values.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences are a user's cross-view settings.
type Preferences struct {
	Theme                string `json:"theme"`
	DefaultPeriodDays    int    `json:"default_period_days"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	DefaultTaskSort      string `json:"default_task_sort"`
	DefaultSortOrder     string `json:"default_sort_order"`
}

// DefaultPreferences apply until the user saves their own.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                "system",
		DefaultPeriodDays:    7,
		NotificationsEnabled: true,
		DefaultTaskSort:      "due_date",
		DefaultSortOrder:     "asc",
	}
}

// Validate checks every field against its allowed values.
func (p Preferences) Validate() error {
	switch p.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidPreferences, p.Theme)
	}

	if p.DefaultPeriodDays < 1 || p.DefaultPeriodDays > 365 {
		return fmt.Errorf("%w: default_period_days must be between 1 and 365", ErrInvalidPreferences)
	}

	switch p.DefaultTaskSort {
	case "due_date", "priority", "created_at", "title":
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidPreferences, p.DefaultTaskSort)
	}

	switch p.DefaultSortOrder {
	case "asc", "desc":
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidPreferences, p.DefaultSortOrder)
	}

	return nil
}

// PreferenceRepository persists preferences per user.
type PreferenceRepository interface {
	// Get returns the stored preferences, or the defaults when the user
	// never saved any.
	Get(ctx context.Context, userID string) (Preferences, error)

	// Put stores the preferences, replacing any previous value.
	Put(ctx context.Context, userID string, prefs Preferences) error
}
