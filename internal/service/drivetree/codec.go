package drivetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	models "materihub/internal/domain/models/drivetree"
	svc "materihub/internal/domain/services/drivetree"
)

// Shape identifies which stored encoding a metadata value used
type Shape string

const (
	ShapeEmpty            Shape = "empty"              // null, absent or blank
	ShapeCanonical        Shape = "canonical"          // {"folderTree": [...]}
	ShapeBareArray        Shape = "bare_array"         // [...]
	ShapeNestedStructure  Shape = "nested_structure"   // {"folderTree": {"structure": [...]}}
	ShapeNestedRootFolder Shape = "nested_root_folder" // {"folderTree": {"rootFolder": {"children": [...]}}}
	ShapeNestedFolderTree Shape = "nested_folder_tree" // {"folderTree": {"folderTree": [...]}}
	ShapeStructure        Shape = "structure"          // {"structure": [...]}
	ShapeRootFolder       Shape = "root_folder"        // {"rootFolder": {"children": [...]}}
	ShapeUnknown          Shape = "unknown"            // valid JSON, no known shape
	ShapeMalformed        Shape = "malformed"          // not JSON, or items of the wrong type
)

// Codec implements the MetadataCodec interface
type Codec struct {
	kinds  *KindRegistry
	logger *slog.Logger
}

var _ svc.MetadataCodec = (*Codec)(nil)

// NewCodec creates a metadata codec. kinds classifies items stored without a kind.
func NewCodec(kinds *KindRegistry, logger *slog.Logger) *Codec {
	return &Codec{kinds: kinds, logger: logger}
}

// Encode serializes the tree in the canonical {"folderTree": [...]} shape.
// Preview URLs are computed on read and are stripped before storing.
func (c *Codec) Encode(tree []models.Item) (string, error) {
	if tree == nil {
		tree = []models.Item{}
	}
	data, err := json.Marshal(models.FolderMetadata{FolderTree: stripPreviewURLs(tree)})
	if err != nil {
		return "", fmt.Errorf("failed to encode folder tree: %w", err)
	}
	return string(data), nil
}

// Decode normalizes a stored metadata value. See DecodeWithShape.
func (c *Codec) Decode(value any) models.FolderMetadata {
	meta, _ := c.DecodeWithShape(value)
	return meta
}

// DecodeWithShape normalizes a stored metadata value and reports the shape it was in.
//
// value may be a JSON string, raw bytes, or an already structured value in any
// of the stored shapes (including a previous Decode result). Unreadable input
// yields an empty tree and a logged warning, never an error.
func (c *Codec) DecodeWithShape(value any) (models.FolderMetadata, Shape) {
	raw, ok := c.rawJSON(value)
	if !ok {
		return c.degrade(ShapeMalformed, value)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return c.finish(nil, ShapeEmpty)
	}

	shape, items := detectShape(raw)
	switch shape {
	case ShapeMalformed, ShapeUnknown:
		return c.degrade(shape, value)
	}

	var stored []storedItem
	if err := json.Unmarshal(items, &stored); err != nil {
		c.logger.Warn("stored folder tree has unreadable items", "shape", shape, "error", err)
		return c.degrade(ShapeMalformed, nil)
	}

	return c.finish(c.normalize(stored), shape)
}

// rawJSON turns any accepted input into JSON bytes
func (c *Codec) rawJSON(value any) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string:
		return bytes.TrimSpace([]byte(v)), true
	case *string:
		if v == nil {
			return nil, true
		}
		return bytes.TrimSpace([]byte(*v)), true
	case []byte:
		return bytes.TrimSpace(v), true
	case json.RawMessage:
		return bytes.TrimSpace(v), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			c.logger.Warn("folder metadata value is not serializable", "type", fmt.Sprintf("%T", v), "error", err)
			return nil, false
		}
		return data, true
	}
}

// detectShape matches the stored encodings in precedence order and returns the
// item array of the first match
func detectShape(raw []byte) (Shape, json.RawMessage) {
	switch raw[0] {
	case '[':
		return ShapeBareArray, raw
	case '{':
	default:
		if !json.Valid(raw) {
			return ShapeMalformed, nil
		}
		return ShapeUnknown, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return ShapeMalformed, nil
	}

	if ft, ok := top["folderTree"]; ok {
		if bytes.Equal(bytes.TrimSpace(ft), []byte("null")) {
			return ShapeEmpty, json.RawMessage("[]")
		}
		if isArray(ft) {
			return ShapeCanonical, ft
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(ft, &nested) == nil && nested != nil {
			if s, ok := nested["structure"]; ok && isArray(s) {
				return ShapeNestedStructure, s
			}
			children, hasRoot := rootFolderChildren(nested)
			if hasRoot && children != nil {
				return ShapeNestedRootFolder, children
			}
			if inner, ok := nested["folderTree"]; ok && isArray(inner) {
				return ShapeNestedFolderTree, inner
			}
			if hasRoot {
				return ShapeNestedRootFolder, json.RawMessage("[]")
			}
		}
	}
	if s, ok := top["structure"]; ok && isArray(s) {
		return ShapeStructure, s
	}
	if children, ok := rootFolderChildren(top); ok {
		if children == nil {
			children = json.RawMessage("[]")
		}
		return ShapeRootFolder, children
	}
	return ShapeUnknown, nil
}

func rootFolderChildren(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	rf, ok := obj["rootFolder"]
	if !ok {
		return nil, false
	}
	var root map[string]json.RawMessage
	if json.Unmarshal(rf, &root) != nil || root == nil {
		return nil, false
	}
	children, ok := root["children"]
	if !ok || bytes.Equal(bytes.TrimSpace(children), []byte("null")) {
		// Root folder without a children list; nil lets a sibling tree win
		return nil, true
	}
	if !isArray(children) {
		return nil, false
	}
	return children, true
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func (c *Codec) finish(items []models.Item, shape Shape) (models.FolderMetadata, Shape) {
	decodeTotal.WithLabelValues(string(shape)).Inc()
	if items == nil {
		items = []models.Item{}
	}
	return models.FolderMetadata{FolderTree: items}, shape
}

func (c *Codec) degrade(shape Shape, value any) (models.FolderMetadata, Shape) {
	if value != nil {
		c.logger.Warn("unreadable folder metadata, using empty tree",
			"shape", shape,
			"sample", sample(value),
		)
	}
	meta, _ := c.finish(nil, shape)
	return meta, shape
}

// sample renders the start of a value for diagnostics
func sample(value any) string {
	s := fmt.Sprintf("%v", value)
	if b, ok := value.([]byte); ok {
		s = string(b)
	}
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// storedItem reads items written by every generation of the ingestion code.
// Older generations stored isFolder instead of kind and size as a number even
// for folders; Drive itself reports size as a decimal string.
type storedItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	MimeType     string       `json:"mimeType"`
	Kind         models.Kind  `json:"kind"`
	IsFolder     *bool        `json:"isFolder"`
	Size         flexInt64    `json:"size"`
	ModifiedTime string       `json:"modifiedTime"`
	ParentID     *string      `json:"parentId"`
	WebViewLink  string       `json:"webViewLink"`
	Children     []storedItem `json:"children"`
}

// flexInt64 accepts a JSON number or a decimal string
type flexInt64 struct {
	value *int64
}

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid size %q", s)
		}
		n = int64(fl)
	}
	f.value = &n
	return nil
}

// normalize converts stored items into the current Item model:
// kind derived when missing, no size on folders, non-nil children on folders.
func (c *Codec) normalize(stored []storedItem) []models.Item {
	items := make([]models.Item, 0, len(stored))
	for _, s := range stored {
		item := models.Item{
			ID:           s.ID,
			Name:         s.Name,
			MimeType:     s.MimeType,
			Kind:         s.Kind,
			ParentID:     s.ParentID,
			ExternalLink: s.WebViewLink,
		}
		if item.Kind == "" {
			if s.IsFolder != nil && *s.IsFolder {
				item.Kind = models.KindFolder
			} else {
				item.Kind = c.kinds.Classify(s.MimeType)
			}
		}
		if item.MimeType == "" && item.Kind == models.KindFolder {
			item.MimeType = c.kinds.FolderMimeType()
		}
		if s.ModifiedTime != "" {
			if t, err := time.Parse(time.RFC3339Nano, s.ModifiedTime); err == nil {
				item.ModifiedAt = &t
			}
		}
		if item.IsFolder() {
			item.Children = c.normalize(s.Children)
		} else {
			item.SizeBytes = s.Size.value
		}
		items = append(items, item)
	}
	return items
}

func stripPreviewURLs(tree []models.Item) []models.Item {
	out := make([]models.Item, len(tree))
	for i, item := range tree {
		item.PreviewURL = ""
		if item.Children != nil {
			item.Children = stripPreviewURLs(item.Children)
		}
		out[i] = item
	}
	return out
}
