package service

import (
	"context"
	"fmt"
	"log/slog"

	treeModels "materihub/internal/domain/models/drivetree"
	"materihub/internal/domain/repositories"
	"materihub/internal/service/drivetree"
)

// shapeCodec is the part of drivetree.Codec the migration needs
type shapeCodec interface {
	DecodeWithShape(value any) (treeModels.FolderMetadata, drivetree.Shape)
	Encode(tree []treeModels.Item) (string, error)
}

// MigrationReport summarizes one metadata normalization run
type MigrationReport struct {
	Scanned   int                     `json:"scanned"`
	Rewritten int                     `json:"rewritten"`
	Skipped   int                     `json:"skipped"` // Unreadable blobs are left untouched
	Shapes    map[drivetree.Shape]int `json:"shapes"`
}

// MetadataMigrator rewrites stored folder trees into the canonical shape
type MetadataMigrator struct {
	materiRepo repositories.MateriRepository
	codec      shapeCodec
	logger     *slog.Logger
}

// NewMetadataMigrator creates a new metadata migrator
func NewMetadataMigrator(materiRepo repositories.MateriRepository, codec shapeCodec, logger *slog.Logger) *MetadataMigrator {
	return &MetadataMigrator{
		materiRepo: materiRepo,
		codec:      codec,
		logger:     logger,
	}
}

// Run normalizes every folder materi. With dryRun nothing is written.
// Blobs that decode to an unknown or malformed shape are never overwritten.
func (m *MetadataMigrator) Run(ctx context.Context, dryRun bool) (*MigrationReport, error) {
	list, err := m.materiRepo.ListFolderMateri(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folder materi: %w", err)
	}

	report := &MigrationReport{Shapes: make(map[drivetree.Shape]int)}
	for _, materi := range list {
		report.Scanned++

		var stored any
		if materi.Metadata != nil {
			stored = *materi.Metadata
		}
		meta, shape := m.codec.DecodeWithShape(stored)
		report.Shapes[shape]++

		if shape == drivetree.ShapeUnknown || shape == drivetree.ShapeMalformed {
			m.logger.Warn("leaving unreadable metadata untouched", "materi_id", materi.ID, "shape", shape)
			report.Skipped++
			continue
		}

		encoded, err := m.codec.Encode(meta.FolderTree)
		if err != nil {
			return report, fmt.Errorf("encode materi %s: %w", materi.ID, err)
		}
		if materi.Metadata != nil && *materi.Metadata == encoded {
			continue
		}

		m.logger.Info("normalizing metadata",
			"materi_id", materi.ID,
			"shape", shape,
			"dry_run", dryRun,
		)
		report.Rewritten++
		if dryRun {
			continue
		}
		if err := m.materiRepo.UpdateMetadata(ctx, materi.ID, &encoded); err != nil {
			return report, fmt.Errorf("update materi %s: %w", materi.ID, err)
		}
	}

	return report, nil
}
