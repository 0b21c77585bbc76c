package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"materihub/internal/domain"
	"materihub/internal/domain/models"
	treeModels "materihub/internal/domain/models/drivetree"
	"materihub/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMateriRepo is an in-memory MateriRepository
type fakeMateriRepo struct {
	mu     sync.Mutex
	byID   map[string]models.Materi
	nextID int
}

func newFakeMateriRepo() *fakeMateriRepo {
	return &fakeMateriRepo{byID: make(map[string]models.Materi)}
}

func (r *fakeMateriRepo) Create(_ context.Context, materi *models.Materi) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	materi.ID = fmt.Sprintf("materi-%d", r.nextID)
	r.byID[materi.ID] = *materi
	return nil
}

func (r *fakeMateriRepo) GetByID(_ context.Context, id string) (*models.Materi, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	materi, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}
	return &materi, nil
}

func (r *fakeMateriRepo) all(filter func(models.Materi) bool) []models.Materi {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Materi{}
	for _, m := range r.byID {
		if filter(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeMateriRepo) List(_ context.Context) ([]models.Materi, error) {
	return r.all(func(models.Materi) bool { return true }), nil
}

func (r *fakeMateriRepo) ListByAuthor(_ context.Context, authorID string) ([]models.Materi, error) {
	return r.all(func(m models.Materi) bool { return m.AuthorID == authorID }), nil
}

func (r *fakeMateriRepo) ListFolderMateri(_ context.Context) ([]models.Materi, error) {
	return r.all(func(m models.Materi) bool { return m.IsFolder() }), nil
}

func (r *fakeMateriRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	list, _ := r.ListByAuthor(ctx, authorID)
	return len(list), nil
}

func (r *fakeMateriRepo) Update(_ context.Context, materi *models.Materi) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[materi.ID]; !ok {
		return fmt.Errorf("materi %s: %w", materi.ID, domain.ErrNotFound)
	}
	r.byID[materi.ID] = *materi
	return nil
}

func (r *fakeMateriRepo) UpdateMetadata(_ context.Context, id string, metadata *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	materi, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}
	materi.Metadata = metadata
	r.byID[id] = materi
	return nil
}

func (r *fakeMateriRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}
	delete(r.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	byID   map[string]models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.byID {
		if existing.Username == user.Username {
			return &domain.ConflictError{Message: "username taken", ResourceType: "user"}
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.byID {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user '%s': %w", username, domain.ErrNotFound)
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	r.byID[id] = user
	return nil
}

// fakeTxManager runs the function without a real transaction
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

// fakeIngestor returns a canned result or error and records requested roots
type fakeIngestor struct {
	result *treeModels.IngestResult
	err    error
	roots  []string
}

func (f *fakeIngestor) IngestFolder(_ context.Context, rootID string) (*treeModels.IngestResult, error) {
	f.roots = append(f.roots, rootID)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
