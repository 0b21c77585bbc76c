package drivetree

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	models "materihub/internal/domain/models/drivetree"
)

//go:embed config/kinds.yaml
var kindFiles embed.FS

// kindTable mirrors config/kinds.yaml
type kindTable struct {
	FolderMimeType string      `yaml:"folder_mime_type"`
	Kinds          []kindEntry `yaml:"kinds"`
}

type kindEntry struct {
	Kind         models.Kind `yaml:"kind"`
	Previewable  bool        `yaml:"previewable"`
	MimeTypes    []string    `yaml:"mime_types"`
	MimePrefixes []string    `yaml:"mime_prefixes"`
}

type prefixRule struct {
	prefix string
	kind   models.Kind
}

// KindRegistry classifies MIME types into item kinds.
// It is read-only after construction and safe for concurrent use.
type KindRegistry struct {
	folderMime  string
	exact       map[string]models.Kind
	prefixes    []prefixRule // In file order; first match wins
	previewable map[models.Kind]bool
}

// NewKindRegistry loads the embedded kind table
func NewKindRegistry() (*KindRegistry, error) {
	data, err := kindFiles.ReadFile("config/kinds.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read kinds.yaml: %w", err)
	}
	return ParseKindRegistry(data)
}

// ParseKindRegistry builds a registry from YAML in the kinds.yaml format
func ParseKindRegistry(data []byte) (*KindRegistry, error) {
	var table kindTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kind table: %w", err)
	}

	r := &KindRegistry{
		folderMime:  table.FolderMimeType,
		exact:       make(map[string]models.Kind),
		previewable: make(map[models.Kind]bool),
	}
	if r.folderMime == "" {
		r.folderMime = models.FolderMimeType
	}

	for _, entry := range table.Kinds {
		if entry.Kind == "" {
			return nil, fmt.Errorf("kind table entry without kind")
		}
		if entry.Kind == models.KindFolder {
			return nil, fmt.Errorf("folder kind is reserved for %s", r.folderMime)
		}
		for _, mt := range entry.MimeTypes {
			mt = strings.ToLower(mt)
			if existing, dup := r.exact[mt]; dup {
				return nil, fmt.Errorf("mime type %s mapped to both %s and %s", mt, existing, entry.Kind)
			}
			r.exact[mt] = entry.Kind
		}
		for _, p := range entry.MimePrefixes {
			r.prefixes = append(r.prefixes, prefixRule{prefix: strings.ToLower(p), kind: entry.Kind})
		}
		if entry.Previewable {
			r.previewable[entry.Kind] = true
		}
	}

	return r, nil
}

// Classify returns the kind for a MIME type
func (r *KindRegistry) Classify(mimeType string) models.Kind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if mt == r.folderMime {
		return models.KindFolder
	}
	if kind, ok := r.exact[mt]; ok {
		return kind
	}
	for _, rule := range r.prefixes {
		if strings.HasPrefix(mt, rule.prefix) {
			return rule.kind
		}
	}
	return models.KindFile
}

// IsPreviewable reports whether items of this kind get an in-app preview URL
func (r *KindRegistry) IsPreviewable(kind models.Kind) bool {
	return r.previewable[kind]
}

// FolderMimeType returns the MIME type treated as a folder
func (r *KindRegistry) FolderMimeType() string {
	return r.folderMime
}
