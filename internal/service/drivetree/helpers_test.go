package drivetree

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"materihub/internal/domain"
	models "materihub/internal/domain/models/drivetree"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testKinds(t *testing.T) *KindRegistry {
	t.Helper()
	kinds, err := NewKindRegistry()
	require.NoError(t, err)
	return kinds
}

func folder(id string) models.Item {
	return models.Item{ID: id, Name: id, MimeType: models.FolderMimeType, Kind: models.KindFolder}
}

func pdf(id string, size int64) models.Item {
	return models.Item{ID: id, Name: id + ".pdf", MimeType: "application/pdf", Kind: models.KindPDF, SizeBytes: &size}
}

func ids(items []models.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

// fakeTreeClient serves a fixed hierarchy from memory
type fakeTreeClient struct {
	mu       sync.Mutex
	items    map[string]models.Item
	children map[string][]models.Item
	failOn   map[string]error // folder id -> ListChildren error
	listed   []string
}

func newFakeTreeClient() *fakeTreeClient {
	return &fakeTreeClient{
		items:    make(map[string]models.Item),
		children: make(map[string][]models.Item),
		failOn:   make(map[string]error),
	}
}

func (f *fakeTreeClient) addFolder(parentID string, item models.Item, children ...models.Item) {
	f.items[item.ID] = item
	if parentID != "" {
		f.children[parentID] = append(f.children[parentID], item)
	}
	for _, child := range children {
		f.items[child.ID] = child
		f.children[item.ID] = append(f.children[item.ID], child)
	}
}

func (f *fakeTreeClient) GetItem(_ context.Context, id string) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.NewRemoteError(domain.ErrRemoteNotFound, id, "File not found: "+id)
	}
	return &item, nil
}

func (f *fakeTreeClient) ListChildren(_ context.Context, id string) ([]models.Item, error) {
	f.mu.Lock()
	f.listed = append(f.listed, id)
	f.mu.Unlock()

	if err, ok := f.failOn[id]; ok {
		return nil, err
	}
	// Copy so callers can't mutate the fixture
	return append([]models.Item(nil), f.children[id]...), nil
}

// scenarioClient is R -> [A -> [C], B]
func scenarioClient() *fakeTreeClient {
	f := newFakeTreeClient()
	f.addFolder("", folder("R"))
	f.addFolder("R", folder("A"), pdf("C", 50))
	b := pdf("B", 100)
	f.items["B"] = b
	f.children["R"] = append(f.children["R"], b)
	return f
}
