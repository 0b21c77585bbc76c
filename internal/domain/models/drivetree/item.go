package drivetree

import "time"

// Kind classifies an item of the remote hierarchy
type Kind string

const (
	KindFolder       Kind = "folder"
	KindPDF          Kind = "pdf"
	KindDocument     Kind = "document"
	KindSpreadsheet  Kind = "spreadsheet"
	KindPresentation Kind = "presentation"
	KindImage        Kind = "image"
	KindVideo        Kind = "video"
	KindAudio        Kind = "audio"
	KindArchive      Kind = "archive"
	KindFile         Kind = "file" // Anything the kind table does not know
)

// FolderMimeType is the MIME type Google Drive reports for folders
const FolderMimeType = "application/vnd.google-apps.folder"

// Item is a node of a remote folder hierarchy.
// JSON names match the metadata blobs already stored on materi records.
type Item struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	MimeType     string     `json:"mimeType"`
	Kind         Kind       `json:"kind"`
	SizeBytes    *int64     `json:"size,omitempty"`         // Leaf items only
	ModifiedAt   *time.Time `json:"modifiedTime,omitempty"` // As reported by the provider
	ParentID     *string    `json:"parentId,omitempty"`     // nil only for the ingestion root
	ExternalLink string     `json:"webViewLink,omitempty"`
	PreviewURL   string     `json:"previewUrl,omitempty"` // Computed on read, never stored by ingestion
	Children     []Item     `json:"children,omitempty"`   // Folders only, derived from the flat list
}

// IsFolder reports whether the item is a folder
func (i *Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// IngestResult is the output of one folder ingestion
type IngestResult struct {
	Root     Item   `json:"rootFolder"`
	FlatList []Item `json:"allItems"`   // Root first, then depth-first pre-order, no children populated
	Tree     []Item `json:"folderTree"` // Materialized children of the root
	PDFFiles []Item `json:"pdfFiles"`   // FlatList items of kind pdf, in flat order
}

// FolderMetadata is the normalized form of the metadata stored on a folder materi
type FolderMetadata struct {
	FolderTree []Item `json:"folderTree"`
}
