package services

import "context"

// ResourceAuthorizer checks if a user can modify resources.
// Current implementation: ownership-based (user authored the materi).
type ResourceAuthorizer interface {
	// CanModifyMateri returns domain.ErrNotFound when the materi does not exist
	// and domain.ErrForbidden when the user is not its author
	CanModifyMateri(ctx context.Context, userID, materiID string) error
}
