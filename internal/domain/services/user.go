package services

import (
	"context"

	"materihub/internal/domain/models"
)

// SignupRequest represents a registration request
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents a password change by the account owner
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Session is the result of a successful login
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService defines account operations
type UserService interface {
	// Signup registers a new user
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)

	// Login checks credentials and issues a session token
	Login(ctx context.Context, req *LoginRequest) (*Session, error)

	// GetProfile returns a user's profile with their materi count
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// ChangePassword replaces the password after verifying the current one
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
}
