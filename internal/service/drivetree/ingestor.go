package drivetree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"materihub/internal/config"
	"materihub/internal/domain"
	models "materihub/internal/domain/models/drivetree"
	svc "materihub/internal/domain/services/drivetree"
)

// Options tunes the traversal
type Options struct {
	MaxDepth    int // Folder levels below the root; deeper hierarchies fail the ingestion
	Concurrency int // Folders listed in parallel within one level; 1 = sequential
}

// ingestor implements the FolderIngestor interface
type ingestor struct {
	client svc.TreeClient
	opts   Options
	logger *slog.Logger
}

// NewIngestor creates a folder ingestor over an authenticated tree client
func NewIngestor(client svc.TreeClient, opts Options, logger *slog.Logger) svc.FolderIngestor {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = config.DefaultMaxFolderDepth
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &ingestor{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// IngestFolder walks the hierarchy under rootID.
//
// Folders are listed level by level; within a level up to Concurrency listings
// run at once. Listings are keyed by folder id, and the flat list is assembled
// afterwards by a depth-first pre-order walk over them, so sibling order is
// whatever ListChildren returned regardless of completion order.
func (s *ingestor) IngestFolder(ctx context.Context, rootID string) (result *models.IngestResult, err error) {
	start := time.Now()
	ctx, span := startIngestSpan(ctx, rootID)
	defer func() {
		count := 0
		if result != nil {
			count = len(result.FlatList)
		}
		finishIngest(span, start, count, err)
		span.End()
	}()

	root, err := s.client.GetItem(ctx, rootID)
	if err != nil {
		s.logger.Warn("failed to fetch root folder", "root_id", rootID, "error", err)
		return nil, err
	}
	if !root.IsFolder() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("item %s is not a folder", rootID)}
	}

	listings, err := s.listAll(ctx, rootID)
	if err != nil {
		s.logger.Warn("folder ingestion aborted", "root_id", rootID, "error", err)
		return nil, err
	}

	rootItem := *root
	rootItem.ParentID = nil
	rootItem.Children = nil

	flat := []models.Item{rootItem}
	flat = appendPreOrder(flat, listings, rootID)

	tree := Materialize(flat, rootID)
	result = &models.IngestResult{
		Root:     rootItem,
		FlatList: flat,
		Tree:     tree,
		PDFFiles: FilterKind(flat, models.KindPDF),
	}

	s.logger.Info("folder ingested",
		"root_id", rootID,
		"item_count", len(flat),
		"pdf_count", len(result.PDFFiles),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// listAll lists every folder under rootID and returns the children per folder id.
// The first failure cancels the remaining listings of its level and is returned as is.
func (s *ingestor) listAll(ctx context.Context, rootID string) (map[string][]models.Item, error) {
	listings := make(map[string][]models.Item)
	seen := map[string]bool{rootID: true}
	level := []string{rootID}

	for depth := 0; len(level) > 0; depth++ {
		if depth > s.opts.MaxDepth {
			return nil, domain.NewRemoteError(domain.ErrRemoteProvider, rootID,
				fmt.Sprintf("folder hierarchy deeper than %d levels", s.opts.MaxDepth))
		}

		results := make([][]models.Item, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Concurrency)
		for i, folderID := range level {
			g.Go(func() error {
				children, err := s.client.ListChildren(gctx, folderID)
				if err != nil {
					return wrapListError(err, folderID)
				}
				results[i] = children
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []string
		for i, folderID := range level {
			children := results[i]
			for j := range children {
				pid := folderID
				children[j].ParentID = &pid
				children[j].Children = nil
				// A folder reachable twice (shortcut, multi-parent) is only listed once
				if children[j].IsFolder() && !seen[children[j].ID] {
					seen[children[j].ID] = true
					next = append(next, children[j].ID)
				}
			}
			listings[folderID] = children
		}
		level = next
	}

	return listings, nil
}

// appendPreOrder appends the descendants of folderID in depth-first pre-order
func appendPreOrder(flat []models.Item, listings map[string][]models.Item, folderID string) []models.Item {
	expanded := make(map[string]bool)
	var walk func(id string)
	walk = func(id string) {
		expanded[id] = true
		for _, child := range listings[id] {
			flat = append(flat, child)
			if child.IsFolder() && !expanded[child.ID] {
				walk(child.ID)
			}
		}
	}
	walk(folderID)
	return flat
}

// wrapListError keeps the remote error kind and names the folder that failed
func wrapListError(err error, folderID string) error {
	var remoteErr *domain.RemoteError
	if errors.As(err, &remoteErr) {
		if remoteErr.ItemID == "" {
			return domain.NewRemoteError(remoteErr.Kind, folderID, remoteErr.Detail)
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.NewRemoteError(domain.ErrRemoteProvider, folderID, err.Error())
}
