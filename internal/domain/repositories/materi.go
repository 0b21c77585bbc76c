package repositories

import (
	"context"

	"materihub/internal/domain/models"
)

// MateriRepository defines data access operations for materi records
type MateriRepository interface {
	// Create inserts a materi and fills in its generated ID and timestamps
	Create(ctx context.Context, materi *models.Materi) error

	// GetByID retrieves a materi by ID (with author username)
	GetByID(ctx context.Context, id string) (*models.Materi, error)

	// List retrieves all materi, newest first
	List(ctx context.Context) ([]models.Materi, error)

	// ListByAuthor retrieves the materi published by one user, newest first
	ListByAuthor(ctx context.Context, authorID string) ([]models.Materi, error)

	// ListFolderMateri retrieves every folder-type materi (metadata included)
	ListFolderMateri(ctx context.Context) ([]models.Materi, error)

	// CountByAuthor counts the materi published by one user
	CountByAuthor(ctx context.Context, authorID string) (int, error)

	// Update replaces title, description, content fields and metadata
	Update(ctx context.Context, materi *models.Materi) error

	// UpdateMetadata replaces only the metadata column
	UpdateMetadata(ctx context.Context, id string, metadata *string) error

	// Delete removes a materi permanently
	Delete(ctx context.Context, id string) error
}
