package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"materihub/internal/domain/models"
	"materihub/internal/service/drivetree"
)

type migrationFixture struct {
	migrator  *MetadataMigrator
	repo      *fakeMateriRepo
	codec     *drivetree.Codec
	canonical string
	ids       map[string]string
}

func newMigrationFixture(t *testing.T) *migrationFixture {
	t.Helper()
	kinds, err := drivetree.NewKindRegistry()
	require.NoError(t, err)
	codec := drivetree.NewCodec(kinds, testLogger())
	repo := newFakeMateriRepo()

	first, err := codec.Encode(sampleIngest().Tree)
	require.NoError(t, err)
	canonical, err := codec.Encode(codec.Decode(first).FolderTree)
	require.NoError(t, err)

	f := &migrationFixture{
		migrator:  NewMetadataMigrator(repo, codec, testLogger()),
		repo:      repo,
		codec:     codec,
		canonical: canonical,
		ids:       make(map[string]string),
	}

	legacy := `{"folderTree":{"rootFolder":{"id":"R","name":"Course"},"allItems":[],"pdfFiles":[],` +
		`"folderTree":[{"id":"A","name":"Week 1","mimeType":"application/vnd.google-apps.folder","children":[]}]}}`
	broken := `{"folderTree": [`

	f.add(t, "canonical", models.ContentTypeFolder, &canonical)
	f.add(t, "legacy", models.ContentTypeFolder, &legacy)
	f.add(t, "broken", models.ContentTypeFolder, &broken)
	f.add(t, "link", models.ContentTypeLink, nil)
	return f
}

func (f *migrationFixture) add(t *testing.T, name string, contentType models.ContentType, metadata *string) {
	t.Helper()
	m := &models.Materi{Title: name, ContentType: contentType, Metadata: metadata, AuthorID: "user-1"}
	require.NoError(t, f.repo.Create(context.Background(), m))
	f.ids[name] = m.ID
}

func (f *migrationFixture) metadata(t *testing.T, name string) string {
	t.Helper()
	m, err := f.repo.GetByID(context.Background(), f.ids[name])
	require.NoError(t, err)
	require.NotNil(t, m.Metadata)
	return *m.Metadata
}

func TestMetadataMigrator_Run(t *testing.T) {
	f := newMigrationFixture(t)
	broken := f.metadata(t, "broken")

	report, err := f.migrator.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned, "link materi are not scanned")
	assert.Equal(t, 1, report.Rewritten)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Shapes[drivetree.ShapeCanonical])
	assert.Equal(t, 1, report.Shapes[drivetree.ShapeNestedFolderTree])
	assert.Equal(t, 1, report.Shapes[drivetree.ShapeMalformed])

	assert.Equal(t, f.canonical, f.metadata(t, "canonical"))
	assert.Equal(t, broken, f.metadata(t, "broken"), "unreadable blobs are left alone")

	migrated, shape := f.codec.DecodeWithShape(f.metadata(t, "legacy"))
	assert.Equal(t, drivetree.ShapeCanonical, shape)
	require.Len(t, migrated.FolderTree, 1)
	assert.Equal(t, "A", migrated.FolderTree[0].ID)

	again, err := f.migrator.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, again.Rewritten, "a second run has nothing to do")
}

func TestMetadataMigrator_DryRun(t *testing.T) {
	f := newMigrationFixture(t)
	legacy := f.metadata(t, "legacy")

	report, err := f.migrator.Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rewritten)
	assert.Equal(t, legacy, f.metadata(t, "legacy"))
}

type failingListRepo struct {
	*fakeMateriRepo
}

func (failingListRepo) ListFolderMateri(context.Context) ([]models.Materi, error) {
	return nil, errors.New("connection reset")
}

func TestMetadataMigrator_ListFailure(t *testing.T) {
	kinds, err := drivetree.NewKindRegistry()
	require.NoError(t, err)
	migrator := NewMetadataMigrator(failingListRepo{newFakeMateriRepo()}, drivetree.NewCodec(kinds, testLogger()), testLogger())

	_, err = migrator.Run(context.Background(), false)
	assert.ErrorContains(t, err, "connection reset")
}
