package drivetree

import (
	"math"
	"net/url"
	"regexp"
	"strconv"

	models "materihub/internal/domain/models/drivetree"
)

var (
	// folderURLPattern matches the folder segment of Drive folder links, e.g.
	// https://drive.google.com/drive/folders/<id>?usp=sharing
	folderURLPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)

	// folderIDPattern is the character set Drive uses for file and folder ids
	folderIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ExtractFolderID returns the folder id embedded in a Drive folder URL.
// ok is false when the URL has no folder segment; callers treat that as invalid input.
func ExtractFolderID(rawURL string) (id string, ok bool) {
	// Only the path is searched so query strings like ?resourcekey=... never match
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}

	m := folderURLPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsValidFolderID reports whether id only uses characters Drive ids are made of
func IsValidFolderID(id string) bool {
	return folderIDPattern.MatchString(id)
}

// PreviewURL returns the embeddable preview URL for a Drive file
func PreviewURL(id string) string {
	return "https://drive.google.com/file/d/" + url.PathEscape(id) + "/preview"
}

// FolderURL returns the browser URL for a Drive folder
func FolderURL(id string) string {
	return "https://drive.google.com/drive/folders/" + url.PathEscape(id)
}

// AttachPreviewURLs sets PreviewURL on every previewable item of the tree, in place
func (r *KindRegistry) AttachPreviewURLs(tree []models.Item) {
	for i := range tree {
		if r.IsPreviewable(tree[i].Kind) && tree[i].ID != "" {
			tree[i].PreviewURL = PreviewURL(tree[i].ID)
		}
		r.AttachPreviewURLs(tree[i].Children)
	}
}

// fileSizeUnits stop at GB; larger sizes are shown as a count of GB
var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count the way the course viewer shows it:
// 1024-based, at most two decimals with trailing zeros dropped ("0 Bytes", "1.5 KB").
func FormatFileSize(size *int64) string {
	if size == nil {
		return ""
	}
	const unit = 1024
	b := *size
	if b < unit {
		return strconv.FormatInt(b, 10) + " Bytes"
	}
	v, exp := float64(b), 0
	for v >= unit && exp < len(fileSizeUnits)-1 {
		v /= unit
		exp++
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + fileSizeUnits[exp]
}
