package services

import (
	"context"

	"materihub/internal/domain/models"
	treeModels "materihub/internal/domain/models/drivetree"
)

// CreateMateriRequest represents a request to publish a materi
type CreateMateriRequest struct {
	AuthorID    string             `json:"-"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ContentURL  string             `json:"contentUrl"`
	ContentType models.ContentType `json:"contentType"`
}

// UpdateMateriRequest represents a full replacement of a materi's editable fields
type UpdateMateriRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ContentURL  string             `json:"contentUrl"`
	ContentType models.ContentType `json:"contentType"`
}

// FolderTreeView is what the course viewer renders for a folder materi
type FolderTreeView struct {
	MateriID   string            `json:"materiId"`
	FolderTree []treeModels.Item `json:"folderTree"`
	PDFFiles   []treeModels.Item `json:"pdfFiles"`
	ItemCount  int               `json:"itemCount"`
}

// MateriService defines business logic operations for materi
type MateriService interface {
	// CreateMateri validates and stores a materi, ingesting the folder tree for folder content
	CreateMateri(ctx context.Context, req *CreateMateriRequest) (*models.Materi, error)

	// GetMateri retrieves a materi by ID
	GetMateri(ctx context.Context, id string) (*models.Materi, error)

	// ListMateri retrieves all materi, newest first
	ListMateri(ctx context.Context) ([]models.Materi, error)

	// ListMateriByAuthor retrieves one user's materi, newest first
	ListMateriByAuthor(ctx context.Context, authorID string) ([]models.Materi, error)

	// UpdateMateri replaces a materi owned by userID, re-ingesting folder content
	UpdateMateri(ctx context.Context, id, userID string, req *UpdateMateriRequest) (*models.Materi, error)

	// DeleteMateri deletes a materi owned by userID
	DeleteMateri(ctx context.Context, id, userID string) error

	// GetFolderTree decodes the stored folder tree of a materi for viewing
	GetFolderTree(ctx context.Context, id string) (*FolderTreeView, error)

	// PreviewFolder ingests a folder without storing anything
	PreviewFolder(ctx context.Context, folderID string) (*treeModels.IngestResult, error)
}
