package repository

import (
	authdomain "planora-backend/internal/auth/domain"
)

// UserRepository defines the interface for user and refresh token data access
type UserRepository interface {
	// Create persists a new user, assigning ID and timestamps.
	Create(user *authdomain.User) error

	// FindByEmail finds a user by email. Returns (nil, nil) when absent.
	FindByEmail(email string) (*authdomain.User, error)

	// FindByID finds a user by ID. Returns (nil, nil) when absent.
	FindByID(id string) (*authdomain.User, error)

	// Update persists the full user record and bumps UpdatedAt.
	Update(user *authdomain.User) error

	// SaveRefreshToken stores a refresh token.
	SaveRefreshToken(token *authdomain.RefreshToken) error

	// FindRefreshToken looks a stored refresh token up by its value.
	// Returns (nil, nil) when absent.
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)

	// DeleteRefreshToken revokes one refresh token.
	DeleteRefreshToken(token string) error

	// DeleteRefreshTokensByUser revokes every refresh token of the user.
	DeleteRefreshTokensByUser(userID string) error

	// ReplaceRefreshToken stores a new refresh token while pruning the
	// user's expired ones. Valid tokens of other devices stay usable.
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
}
