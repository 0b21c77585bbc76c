package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"materihub/internal/config"
	"materihub/internal/domain"
	"materihub/internal/domain/models"
	treeModels "materihub/internal/domain/models/drivetree"
	"materihub/internal/domain/repositories"
	"materihub/internal/domain/services"
	treeSvc "materihub/internal/domain/services/drivetree"
	"materihub/internal/service/drivetree"
)

// previewLinker computes in-app preview URLs for a decoded tree
type previewLinker interface {
	AttachPreviewURLs(tree []treeModels.Item)
}

// materiService implements the MateriService interface
type materiService struct {
	materiRepo repositories.MateriRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	ingestor   treeSvc.FolderIngestor
	codec      treeSvc.MetadataCodec
	previews   previewLinker
	logger     *slog.Logger
}

// NewMateriService creates a new materi service
func NewMateriService(
	materiRepo repositories.MateriRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	ingestor treeSvc.FolderIngestor,
	codec treeSvc.MetadataCodec,
	previews previewLinker,
	logger *slog.Logger,
) services.MateriService {
	return &materiService{
		materiRepo: materiRepo,
		txManager:  txManager,
		authorizer: authorizer,
		ingestor:   ingestor,
		codec:      codec,
		previews:   previews,
		logger:     logger,
	}
}

// CreateMateri validates and stores a materi.
// Folder content is ingested first; if ingestion fails nothing is stored.
func (s *materiService) CreateMateri(ctx context.Context, req *services.CreateMateriRequest) (*models.Materi, error) {
	normalizeContent(&req.Title, &req.Description, &req.ContentURL, &req.ContentType)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	metadata, err := s.buildMetadata(ctx, req.ContentType, req.ContentURL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	materi := &models.Materi{
		Title:       req.Title,
		Description: req.Description,
		ContentURL:  req.ContentURL,
		ContentType: req.ContentType,
		Metadata:    metadata,
		AuthorID:    req.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.materiRepo.Create(ctx, materi); err != nil {
		return nil, err
	}

	s.logger.Info("materi created",
		"id", materi.ID,
		"content_type", materi.ContentType,
		"author_id", materi.AuthorID,
		"has_metadata", metadata != nil,
	)

	return s.materiRepo.GetByID(ctx, materi.ID)
}

// GetMateri retrieves a materi by ID
func (s *materiService) GetMateri(ctx context.Context, id string) (*models.Materi, error) {
	return s.materiRepo.GetByID(ctx, id)
}

// ListMateri retrieves all materi
func (s *materiService) ListMateri(ctx context.Context) ([]models.Materi, error) {
	return s.materiRepo.List(ctx)
}

// ListMateriByAuthor retrieves one user's materi
func (s *materiService) ListMateriByAuthor(ctx context.Context, authorID string) ([]models.Materi, error) {
	return s.materiRepo.ListByAuthor(ctx, authorID)
}

// UpdateMateri replaces a materi's editable fields.
//
// Folder content is re-ingested from scratch on every update, outside the
// transaction since it only talks to Drive. Ownership is checked again inside
// the transaction before writing.
func (s *materiService) UpdateMateri(ctx context.Context, id, userID string, req *services.UpdateMateriRequest) (*models.Materi, error) {
	if err := s.authorizer.CanModifyMateri(ctx, userID, id); err != nil {
		return nil, err
	}

	normalizeContent(&req.Title, &req.Description, &req.ContentURL, &req.ContentType)

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	metadata, err := s.buildMetadata(ctx, req.ContentType, req.ContentURL)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.authorizer.CanModifyMateri(txCtx, userID, id); err != nil {
			return err
		}

		materi, err := s.materiRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		materi.Title = req.Title
		materi.Description = req.Description
		materi.ContentURL = req.ContentURL
		materi.ContentType = req.ContentType
		materi.Metadata = metadata
		materi.UpdatedAt = time.Now()

		return s.materiRepo.Update(txCtx, materi)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("materi updated",
		"id", id,
		"content_type", req.ContentType,
		"user_id", userID,
		"has_metadata", metadata != nil,
	)

	return s.materiRepo.GetByID(ctx, id)
}

// DeleteMateri deletes a materi
func (s *materiService) DeleteMateri(ctx context.Context, id, userID string) error {
	if err := s.authorizer.CanModifyMateri(ctx, userID, id); err != nil {
		return err
	}

	if err := s.materiRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("materi deleted",
		"id", id,
		"user_id", userID,
	)

	return nil
}

// GetFolderTree decodes the stored tree of a materi for the course viewer.
// Unreadable metadata and non-folder materi both yield an empty tree.
func (s *materiService) GetFolderTree(ctx context.Context, id string) (*services.FolderTreeView, error) {
	materi, err := s.materiRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tree := []treeModels.Item{}
	if materi.IsFolder() {
		tree = s.codec.Decode(materi.Metadata).FolderTree
	}
	s.previews.AttachPreviewURLs(tree)

	return &services.FolderTreeView{
		MateriID:   materi.ID,
		FolderTree: tree,
		PDFFiles:   drivetree.CollectKind(tree, treeModels.KindPDF),
		ItemCount:  drivetree.CountItems(tree),
	}, nil
}

// PreviewFolder ingests a folder without storing anything.
// folderRef may be a folder URL or a bare folder id.
func (s *materiService) PreviewFolder(ctx context.Context, folderRef string) (*treeModels.IngestResult, error) {
	folderRef = strings.TrimSpace(folderRef)

	folderID, ok := drivetree.ExtractFolderID(folderRef)
	if !ok {
		if !drivetree.IsValidFolderID(folderRef) {
			return nil, &domain.ValidationError{Message: "folderId is required and must be a Google Drive folder id or URL"}
		}
		folderID = folderRef
	}

	result, err := s.ingestor.IngestFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	s.previews.AttachPreviewURLs(result.Tree)
	s.previews.AttachPreviewURLs(result.FlatList)
	s.previews.AttachPreviewURLs(result.PDFFiles)

	return result, nil
}

// buildMetadata ingests folder content and encodes its tree.
// Other content types carry no metadata.
func (s *materiService) buildMetadata(ctx context.Context, contentType models.ContentType, contentURL string) (*string, error) {
	if contentType != models.ContentTypeFolder {
		return nil, nil
	}

	folderID, ok := drivetree.ExtractFolderID(contentURL)
	if !ok {
		return nil, &domain.ValidationError{Message: "invalid Google Drive folder URL"}
	}

	result, err := s.ingestor.IngestFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	blob, err := s.codec.Encode(result.Tree)
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

func normalizeContent(title, description, contentURL *string, contentType *models.ContentType) {
	*title = strings.TrimSpace(*title)
	*description = strings.TrimSpace(*description)
	*contentURL = strings.TrimSpace(*contentURL)
	if *contentType == "" {
		*contentType = models.ContentTypeLink
	}
}

// validateCreateRequest validates a create materi request
func (s *materiService) validateCreateRequest(req *services.CreateMateriRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AuthorID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Required, validation.RuneLength(1, config.MaxDescriptionLength)),
		validation.Field(&req.ContentURL, validation.Required, validation.Length(1, config.MaxContentURLLength), is.URL),
		validation.Field(&req.ContentType, validation.Required, validation.In(models.ContentTypes...)),
	)
}

// validateUpdateRequest validates an update materi request
func (s *materiService) validateUpdateRequest(req *services.UpdateMateriRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Required, validation.RuneLength(1, config.MaxDescriptionLength)),
		validation.Field(&req.ContentURL, validation.Required, validation.Length(1, config.MaxContentURLLength), is.URL),
		validation.Field(&req.ContentType, validation.Required, validation.In(models.ContentTypes...)),
	)
}
