package auth

import (
	"context"
	"fmt"

	"materihub/internal/domain"
	"materihub/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can modify a materi if they authored it.
type OwnerBasedAuthorizer struct {
	materiRepo repositories.MateriRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(materiRepo repositories.MateriRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{materiRepo: materiRepo}
}

// CanModifyMateri checks if user authored the materi
func (a *OwnerBasedAuthorizer) CanModifyMateri(ctx context.Context, userID, materiID string) error {
	materi, err := a.materiRepo.GetByID(ctx, materiID)
	if err != nil {
		return err
	}
	if materi.AuthorID != userID {
		return fmt.Errorf("materi %s belongs to another user: %w", materiID, domain.ErrForbidden)
	}
	return nil
}
