package models

import "time"

// ContentType discriminates what a materi's content URL points at
type ContentType string

const (
	ContentTypeFolder   ContentType = "folder"
	ContentTypeDocument ContentType = "document"
	ContentTypeVideo    ContentType = "video"
	ContentTypeLink     ContentType = "link"
)

// ContentTypes lists every accepted content type
var ContentTypes = []interface{}{
	ContentTypeFolder,
	ContentTypeDocument,
	ContentTypeVideo,
	ContentTypeLink,
}

// Materi is a published learning material entry
type Materi struct {
	ID             string      `json:"id" db:"id"`
	Title          string      `json:"title" db:"title"`
	Description    string      `json:"description" db:"description"`
	ContentURL     string      `json:"contentUrl" db:"content_url"`
	ContentType    ContentType `json:"contentType" db:"content_type"`
	Metadata       *string     `json:"metadata" db:"metadata"` // Opaque; set only for folder content
	AuthorID       string      `json:"authorId" db:"author_id"`
	AuthorUsername string      `json:"authorUsername,omitempty"` // Joined on read, not stored
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// IsFolder reports whether the materi points at a remote folder
func (m *Materi) IsFolder() bool {
	return m.ContentType == ContentTypeFolder
}
