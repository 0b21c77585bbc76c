package drivetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "materihub/internal/domain/models/drivetree"
)

func TestKindRegistry_Classify(t *testing.T) {
	kinds := testKinds(t)

	tests := []struct {
		mime string
		want models.Kind
	}{
		{mime: models.FolderMimeType, want: models.KindFolder},
		{mime: "application/pdf", want: models.KindPDF},
		{mime: "Application/PDF", want: models.KindPDF},
		{mime: "application/vnd.google-apps.document", want: models.KindDocument},
		{mime: "application/vnd.openxmlformats-officedocument.presentationml.presentation", want: models.KindPresentation},
		{mime: "text/csv", want: models.KindSpreadsheet},
		{mime: "image/png", want: models.KindImage},
		{mime: "video/mp4", want: models.KindVideo},
		{mime: "audio/mpeg", want: models.KindAudio},
		{mime: "application/zip", want: models.KindArchive},
		{mime: "application/octet-stream", want: models.KindFile},
		{mime: "", want: models.KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds.Classify(tt.mime))
		})
	}
}

func TestKindRegistry_Previewable(t *testing.T) {
	kinds := testKinds(t)
	assert.True(t, kinds.IsPreviewable(models.KindPDF))
	assert.False(t, kinds.IsPreviewable(models.KindFolder))
	assert.False(t, kinds.IsPreviewable(models.KindVideo))
}

func TestParseKindRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid yaml", yaml: "kinds: [unclosed"},
		{name: "entry without kind", yaml: "kinds:\n  - mime_types: [a/b]\n"},
		{name: "folder kind reserved", yaml: "kinds:\n  - kind: folder\n"},
		{name: "duplicate mime", yaml: "kinds:\n  - kind: pdf\n    mime_types: [a/b]\n  - kind: file\n    mime_types: [A/B]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKindRegistry([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}
