package drivetree

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "materihub/internal/domain/models/drivetree"
)

// sampleTree is R's children from the ingestion scenario: [A -> [C], B]
func sampleTree() []models.Item {
	r, a := "R", "A"
	modified := time.Date(2025, 7, 28, 10, 30, 0, 0, time.UTC)

	c := pdf("C", 50)
	c.ParentID = &a
	c.ModifiedAt = &modified
	c.ExternalLink = "https://drive.google.com/file/d/C/view"

	folderA := folder("A")
	folderA.ParentID = &r
	folderA.Children = []models.Item{c}

	b := pdf("B", 100)
	b.ParentID = &r

	return []models.Item{folderA, b}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())
	tree := sampleTree()

	blob, err := codec.Encode(tree)
	require.NoError(t, err)

	meta, shape := codec.DecodeWithShape(blob)
	assert.Equal(t, ShapeCanonical, shape)
	assert.Equal(t, tree, meta.FolderTree)
}

func TestCodec_EncodeCanonicalShape(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())

	blob, err := codec.Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"folderTree":[]}`, blob)

	tree := sampleTree()
	tree[1].PreviewURL = PreviewURL("B")
	blob, err = codec.Encode(tree)
	require.NoError(t, err)
	assert.NotContains(t, blob, "previewUrl", "preview URLs are not stored")
	assert.NotEmpty(t, tree[1].PreviewURL, "caller's tree is untouched")
}

func TestCodec_DecodeIsIdempotent(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())
	blob, err := codec.Encode(sampleTree())
	require.NoError(t, err)

	first := codec.Decode(blob)
	second := codec.Decode(first.FolderTree)
	third := codec.Decode(first)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestCodec_GracefulDegradation(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())
	var nilString *string

	tests := []struct {
		name      string
		value     any
		wantShape Shape
	}{
		{name: "empty string", value: "", wantShape: ShapeEmpty},
		{name: "whitespace", value: "   ", wantShape: ShapeEmpty},
		{name: "nil", value: nil, wantShape: ShapeEmpty},
		{name: "nil string pointer", value: nilString, wantShape: ShapeEmpty},
		{name: "json null", value: "null", wantShape: ShapeEmpty},
		{name: "not json", value: "not json{{", wantShape: ShapeMalformed},
		{name: "broken object", value: `{"folderTree": [`, wantShape: ShapeMalformed},
		{name: "empty array", value: "[]", wantShape: ShapeBareArray},
		{name: "scalar", value: "42", wantShape: ShapeUnknown},
		{name: "unrelated object", value: `{"foo": "bar"}`, wantShape: ShapeUnknown},
		{name: "folderTree is a string", value: `{"folderTree": "x"}`, wantShape: ShapeUnknown},
		{name: "folderTree null", value: `{"folderTree": null}`, wantShape: ShapeEmpty},
		{name: "root folder without children", value: `{"rootFolder": {"id": "R"}}`, wantShape: ShapeRootFolder},
		{name: "nested root folder without children", value: `{"folderTree": {"rootFolder": {"id": "R", "children": null}}}`, wantShape: ShapeNestedRootFolder},
		{name: "items of wrong type", value: `[1, 2, 3]`, wantShape: ShapeMalformed},
		{name: "unserializable value", value: func() {}, wantShape: ShapeMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				meta  models.FolderMetadata
				shape Shape
			)
			require.NotPanics(t, func() { meta, shape = codec.DecodeWithShape(tt.value) })
			assert.Equal(t, tt.wantShape, shape)
			assert.NotNil(t, meta.FolderTree)
			assert.Empty(t, meta.FolderTree)
		})
	}
}

func TestCodec_LegacyShapes(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())
	tree := sampleTree()
	treeJSON := json.RawMessage(mustJSON(t, tree))

	tests := []struct {
		name  string
		value any
		shape Shape
	}{
		{name: "bare array", value: string(treeJSON), shape: ShapeBareArray},
		{name: "canonical", value: mustJSON(t, map[string]any{"folderTree": treeJSON}), shape: ShapeCanonical},
		{name: "nested structure", value: mustJSON(t, map[string]any{
			"folderTree": map[string]any{"structure": treeJSON},
		}), shape: ShapeNestedStructure},
		{name: "nested root folder", value: mustJSON(t, map[string]any{
			"folderTree": map[string]any{"rootFolder": map[string]any{"id": "R", "children": treeJSON}},
		}), shape: ShapeNestedRootFolder},
		{name: "structure", value: mustJSON(t, map[string]any{"structure": treeJSON}), shape: ShapeStructure},
		{name: "root folder", value: mustJSON(t, map[string]any{
			"rootFolder": map[string]any{"id": "R", "children": treeJSON},
		}), shape: ShapeRootFolder},
		// Whole ingestion result stored under folderTree
		{name: "nested ingestion result", value: mustJSON(t, map[string]any{
			"folderTree": map[string]any{
				"rootFolder": map[string]any{"id": "R", "children": treeJSON},
				"allItems":   []any{},
				"pdfFiles":   []any{},
				"folderTree": treeJSON,
			},
		}), shape: ShapeNestedRootFolder},
		{name: "nested folderTree only", value: mustJSON(t, map[string]any{
			"folderTree": map[string]any{"folderTree": treeJSON},
		}), shape: ShapeNestedFolderTree},
		{name: "childless root beside nested folderTree", value: mustJSON(t, map[string]any{
			"folderTree": map[string]any{
				"rootFolder": map[string]any{"id": "R"},
				"folderTree": treeJSON,
			},
		}), shape: ShapeNestedFolderTree},
		{name: "structured map", value: map[string]any{"structure": treeJSON}, shape: ShapeStructure},
		{name: "raw bytes", value: []byte(mustJSON(t, map[string]any{"folderTree": treeJSON})), shape: ShapeCanonical},
		{name: "item slice", value: tree, shape: ShapeBareArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, shape := codec.DecodeWithShape(tt.value)
			assert.Equal(t, tt.shape, shape)
			assert.Equal(t, tree, meta.FolderTree)
		})
	}
}

func TestCodec_FolderTreeWinsOverStructure(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())

	meta, shape := codec.DecodeWithShape(`{"folderTree":[{"id":"x","mimeType":"application/pdf"}],"structure":[{"id":"y"}]}`)
	assert.Equal(t, ShapeCanonical, shape)
	assert.Equal(t, []string{"x"}, ids(meta.FolderTree))
}

func TestCodec_NormalizesOldItems(t *testing.T) {
	codec := NewCodec(testKinds(t), testLogger())

	// Written by the first ingestion generation: isFolder, numeric size on folders, no kind
	stored := `{"folderTree":[
		{"id":"f","name":"Week 1","mimeType":"application/vnd.google-apps.folder","isFolder":true,"size":0,
		 "modifiedTime":"2025-07-28T10:30:00.000Z","parentId":"R","children":[
			{"id":"p","name":"slides.pdf","mimeType":"application/pdf","isFolder":false,"size":"2048","parentId":"f"},
			{"id":"v","name":"lecture.mp4","mimeType":"video/mp4","isFolder":false,"size":1.5e3,"parentId":"f"}
		 ]},
		{"id":"e","name":"empty","isFolder":true}
	]}`

	meta := codec.Decode(stored)
	require.Len(t, meta.FolderTree, 2)

	week := meta.FolderTree[0]
	assert.Equal(t, models.KindFolder, week.Kind)
	assert.Nil(t, week.SizeBytes, "folders never carry a size")
	require.NotNil(t, week.ModifiedAt)
	assert.Equal(t, 2025, week.ModifiedAt.Year())
	require.Len(t, week.Children, 2)

	slides := week.Children[0]
	assert.Equal(t, models.KindPDF, slides.Kind)
	require.NotNil(t, slides.SizeBytes)
	assert.Equal(t, int64(2048), *slides.SizeBytes)

	video := week.Children[1]
	assert.Equal(t, models.KindVideo, video.Kind)
	assert.Equal(t, int64(1500), *video.SizeBytes)

	empty := meta.FolderTree[1]
	assert.Equal(t, models.KindFolder, empty.Kind)
	assert.Equal(t, models.FolderMimeType, empty.MimeType)
	assert.NotNil(t, empty.Children)
	assert.Empty(t, empty.Children)
}
