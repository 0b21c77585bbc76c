package drivetree

import (
	"context"

	models "materihub/internal/domain/models/drivetree"
)

// TreeClient is the single authenticated gateway to the remote hierarchical store.
// Errors are *domain.RemoteError values unwrapping to ErrRemoteNotFound,
// ErrRemoteAccessDenied or ErrRemoteProvider.
type TreeClient interface {
	// GetItem returns metadata for one item, without children
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// ListChildren returns the direct children of a folder in provider order
	ListChildren(ctx context.Context, id string) ([]models.Item, error)
}

// FolderIngestor turns a root folder id into a flat list, a tree and a PDF subset
type FolderIngestor interface {
	// IngestFolder walks the whole hierarchy under rootID.
	// Any remote failure aborts the ingestion; no partial result is returned.
	IngestFolder(ctx context.Context, rootID string) (*models.IngestResult, error)
}

// MetadataCodec produces and consumes the opaque metadata blob stored per materi
type MetadataCodec interface {
	// Encode wraps the tree in the canonical {"folderTree": [...]} shape
	Encode(tree []models.Item) (string, error)

	// Decode normalizes any stored or structured value into FolderMetadata.
	// It never fails; unreadable input yields an empty tree.
	Decode(value any) models.FolderMetadata
}
