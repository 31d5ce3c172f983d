package usecase

import (
	authdomain "planora-backend/internal/auth/domain"
	authdto "planora-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication business logic
type AuthUsecase interface {
	// Register creates an email/password account and signs the user in
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)

	// Login checks an email/password pair and issues tokens
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)

	// GoogleSignIn verifies a Google ID token and finds or creates the user
	GoogleSignIn(idToken string) (*authdto.TokenResponse, error)

	// RefreshToken rotates a valid refresh token into a fresh token pair
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)

	// Logout revokes one refresh token
	Logout(refreshToken string) error

	// ValidateToken checks an access token and loads its user
	ValidateToken(tokenString string) (*authdomain.User, error)

	// Me loads the user's own profile
	Me(userID string) (*authdomain.User, error)

	// RegisterFCMToken stores a device token for push notifications
	RegisterFCMToken(userID, token, deviceInfo string) error

	// UnregisterFCMToken removes a device token
	UnregisterFCMToken(token string) error
}
