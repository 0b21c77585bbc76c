package repositories

import (
	"context"

	"materihub/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create inserts a user; a taken username yields *domain.ConflictError
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword stores a new password hash
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
