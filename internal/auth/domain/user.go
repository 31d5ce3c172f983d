package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	// Lookup and comparison failures share it so responses never reveal
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWrongProvider is returned when a Google account tries password login.
	ErrWrongProvider = errors.New("please use Google Sign-In for this account")
	// ErrInvalidToken is returned for expired, malformed, or revoked tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // Never return password in JSON
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"` // "email" or "google"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}
