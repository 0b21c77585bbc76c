package drivetree

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"materihub/internal/domain"
	models "materihub/internal/domain/models/drivetree"
)

func TestIngestFolder_Scenario(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			ing := NewIngestor(scenarioClient(), Options{Concurrency: concurrency}, testLogger())

			result, err := ing.IngestFolder(context.Background(), "R")
			require.NoError(t, err)

			assert.Equal(t, "R", result.Root.ID)
			assert.Nil(t, result.Root.ParentID, "root has no parent")

			// Root first, then depth-first pre-order
			assert.Equal(t, []string{"R", "A", "C", "B"}, ids(result.FlatList))
			assert.Equal(t, []string{"C", "B"}, ids(result.PDFFiles))

			require.Len(t, result.Tree, 2)
			assert.Equal(t, "A", result.Tree[0].ID)
			assert.Equal(t, []string{"C"}, ids(result.Tree[0].Children))
			assert.Equal(t, "B", result.Tree[1].ID)
			assert.Nil(t, result.Tree[1].Children, "leaves carry no children")

			require.NotNil(t, result.Tree[1].SizeBytes)
			assert.Equal(t, int64(100), *result.Tree[1].SizeBytes)
		})
	}
}

func TestIngestFolder_ParentClosure(t *testing.T) {
	result, err := NewIngestor(scenarioClient(), Options{}, testLogger()).IngestFolder(context.Background(), "R")
	require.NoError(t, err)

	present := make(map[string]bool)
	for _, item := range result.FlatList {
		present[item.ID] = true
	}
	for _, item := range result.FlatList[1:] {
		require.NotNil(t, item.ParentID, "item %s", item.ID)
		assert.True(t, present[*item.ParentID], "parent of %s is in the flat list", item.ID)
	}
	assert.Equal(t, "A", *result.FlatList[2].ParentID)
}

func TestIngestFolder_TreeMatchesFlatList(t *testing.T) {
	f := newFakeTreeClient()
	f.addFolder("", folder("root"))
	f.addFolder("root", folder("w1"), pdf("w1-a", 1))
	f.addFolder("w1", folder("w1-sub"), pdf("deep", 2))
	f.addFolder("root", folder("w2"))
	f.children["root"] = append(f.children["root"], pdf("top", 3))

	result, err := NewIngestor(f, Options{Concurrency: 3}, testLogger()).IngestFolder(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, Materialize(result.FlatList, "root"), result.Tree)
	assert.Equal(t, len(result.FlatList)-1, CountItems(result.Tree))
	assert.Equal(t, FilterKind(result.FlatList, models.KindPDF), result.PDFFiles)
}

func TestIngestFolder_PreservesSiblingOrder(t *testing.T) {
	f := newFakeTreeClient()
	f.addFolder("", folder("root"))
	// Deliberately not sorted by id or name
	f.addFolder("root", folder("z"), pdf("z2", 1), pdf("z1", 1))
	f.addFolder("root", folder("a"), pdf("a9", 1), pdf("a0", 1))
	f.children["root"] = append(f.children["root"], pdf("m", 1))

	result, err := NewIngestor(f, Options{Concurrency: 8}, testLogger()).IngestFolder(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, ids(result.Tree))
	assert.Equal(t, []string{"z2", "z1"}, ids(result.Tree[0].Children))
	assert.Equal(t, []string{"a9", "a0"}, ids(result.Tree[1].Children))
	assert.Equal(t, []string{"root", "z", "z2", "z1", "a", "a9", "a0", "m"}, ids(result.FlatList))
}

func TestIngestFolder_AbortsOnDescendantFailure(t *testing.T) {
	f := scenarioClient()
	f.failOn["A"] = domain.NewRemoteError(domain.ErrRemoteAccessDenied, "", "The user does not have sufficient permissions")

	result, err := NewIngestor(f, Options{}, testLogger()).IngestFolder(context.Background(), "R")
	require.Error(t, err)
	assert.Nil(t, result, "no partial result")

	assert.True(t, errors.Is(err, domain.ErrRemoteAccessDenied))
	var remoteErr *domain.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "A", remoteErr.ItemID, "names the failing folder")
	assert.Contains(t, err.Error(), "sufficient permissions")
}

func TestIngestFolder_PlainErrorBecomesProviderError(t *testing.T) {
	f := scenarioClient()
	f.failOn["R"] = errors.New("connection reset by peer")

	_, err := NewIngestor(f, Options{}, testLogger()).IngestFolder(context.Background(), "R")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteProvider))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIngestFolder_RootNotFound(t *testing.T) {
	_, err := NewIngestor(scenarioClient(), Options{}, testLogger()).IngestFolder(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemoteNotFound))
}

func TestIngestFolder_RootIsNotAFolder(t *testing.T) {
	_, err := NewIngestor(scenarioClient(), Options{}, testLogger()).IngestFolder(context.Background(), "B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestIngestFolder_DepthBound(t *testing.T) {
	// d0 is the root; d5 sits five levels below it
	f := newFakeTreeClient()
	f.addFolder("", folder("d0"))
	for i := 1; i <= 5; i++ {
		f.addFolder(fmt.Sprintf("d%d", i-1), folder(fmt.Sprintf("d%d", i)))
	}

	tests := []struct {
		name     string
		maxDepth int
		wantErr  bool
	}{
		{name: "well under the bound", maxDepth: 3, wantErr: true},
		{name: "one level short", maxDepth: 4, wantErr: true},
		{name: "exactly at the bound", maxDepth: 5},
		{name: "above the bound", maxDepth: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewIngestor(f, Options{MaxDepth: tt.maxDepth}, testLogger()).IngestFolder(context.Background(), "d0")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrRemoteProvider))
				return
			}
			require.NoError(t, err)
			assert.Len(t, result.FlatList, 6)
		})
	}
}

func TestIngestFolder_SingleLevelBound(t *testing.T) {
	f := newFakeTreeClient()
	f.addFolder("", folder("R"))
	f.addFolder("R", folder("A"))

	result, err := NewIngestor(f, Options{MaxDepth: 1}, testLogger()).IngestFolder(context.Background(), "R")
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "A"}, ids(result.FlatList))
}

func TestIngestFolder_CycleTerminates(t *testing.T) {
	f := newFakeTreeClient()
	f.addFolder("", folder("R"))
	f.addFolder("R", folder("A"))
	// A lists R again
	f.children["A"] = append(f.children["A"], folder("R"))

	result, err := NewIngestor(f, Options{}, testLogger()).IngestFolder(context.Background(), "R")
	require.NoError(t, err)

	assert.Equal(t, []string{"R", "A", "R"}, ids(result.FlatList))
	require.Len(t, result.Tree, 1)
	require.Len(t, result.Tree[0].Children, 1)
	assert.Empty(t, result.Tree[0].Children[0].Children, "revisited folder is not expanded")
	assert.Equal(t, []string{"R", "A"}, f.listed)
}

func TestIngestFolder_EmptyFolder(t *testing.T) {
	f := newFakeTreeClient()
	f.addFolder("", folder("empty"))

	result, err := NewIngestor(f, Options{}, testLogger()).IngestFolder(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, ids(result.FlatList))
	assert.NotNil(t, result.Tree)
	assert.Empty(t, result.Tree)
	assert.NotNil(t, result.PDFFiles)
	assert.Empty(t, result.PDFFiles)
}
