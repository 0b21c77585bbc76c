package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"materihub/internal/domain"
	"materihub/internal/domain/models"
	"materihub/internal/domain/repositories"
)

// PostgresMateriRepository implements the MateriRepository interface
type PostgresMateriRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMateriRepository creates a new materi repository
func NewMateriRepository(config *RepositoryConfig) repositories.MateriRepository {
	return &PostgresMateriRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// selectColumns returns the materi columns joined with the author's username
func (r *PostgresMateriRepository) selectColumns() string {
	return fmt.Sprintf(`
		SELECT m.id, m.title, m.description, m.content_url, m.content_type, m.metadata,
		       m.author_id, COALESCE(u.username, ''), m.created_at, m.updated_at
		FROM %s m
		LEFT JOIN %s u ON u.id = m.author_id
	`, r.tables.Materi, r.tables.Users)
}

// Create inserts a materi
func (r *PostgresMateriRepository) Create(ctx context.Context, materi *models.Materi) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, content_url, content_type, metadata, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Materi)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		materi.Title,
		materi.Description,
		materi.ContentURL,
		materi.ContentType,
		materi.Metadata,
		materi.AuthorID,
		materi.CreatedAt,
		materi.UpdatedAt,
	).Scan(&materi.ID, &materi.CreatedAt, &materi.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("author %s: %w", materi.AuthorID, domain.ErrNotFound)
		}
		return fmt.Errorf("create materi: %w", err)
	}

	return nil
}

// GetByID retrieves a materi by ID
func (r *PostgresMateriRepository) GetByID(ctx context.Context, id string) (*models.Materi, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}

	query := r.selectColumns() + ` WHERE m.id = $1`

	executor := GetExecutor(ctx, r.pool)
	materi, err := scanMateri(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get materi: %w", err)
	}

	return materi, nil
}

// List retrieves all materi, newest first
func (r *PostgresMateriRepository) List(ctx context.Context) ([]models.Materi, error) {
	return r.list(ctx, r.selectColumns()+` ORDER BY m.created_at DESC`)
}

// ListByAuthor retrieves one user's materi, newest first
func (r *PostgresMateriRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Materi, error) {
	if !isUUID(authorID) {
		return []models.Materi{}, nil
	}
	return r.list(ctx, r.selectColumns()+` WHERE m.author_id = $1 ORDER BY m.created_at DESC`, authorID)
}

// ListFolderMateri retrieves every folder-type materi
func (r *PostgresMateriRepository) ListFolderMateri(ctx context.Context) ([]models.Materi, error) {
	return r.list(ctx, r.selectColumns()+` WHERE m.content_type = $1 ORDER BY m.created_at`, models.ContentTypeFolder)
}

func (r *PostgresMateriRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Materi, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materi: %w", err)
	}
	defer rows.Close()

	materiList := []models.Materi{}
	for rows.Next() {
		materi, err := scanMateri(rows)
		if err != nil {
			return nil, fmt.Errorf("scan materi: %w", err)
		}
		materiList = append(materiList, *materi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materi: %w", err)
	}

	return materiList, nil
}

// CountByAuthor counts one user's materi
func (r *PostgresMateriRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	if !isUUID(authorID) {
		return 0, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE author_id = $1`, r.tables.Materi)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count materi: %w", err)
	}
	return count, nil
}

// Update replaces the editable fields and metadata
func (r *PostgresMateriRepository) Update(ctx context.Context, materi *models.Materi) error {
	if !isUUID(materi.ID) {
		return fmt.Errorf("materi %s: %w", materi.ID, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, content_url = $3, content_type = $4, metadata = $5, updated_at = $6
		WHERE id = $7
		RETURNING created_at
	`, r.tables.Materi)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		materi.Title,
		materi.Description,
		materi.ContentURL,
		materi.ContentType,
		materi.Metadata,
		materi.UpdatedAt,
		materi.ID,
	).Scan(&materi.CreatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("materi %s: %w", materi.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update materi: %w", err)
	}

	return nil
}

// UpdateMetadata replaces only the metadata column, leaving updated_at alone
func (r *PostgresMateriRepository) UpdateMetadata(ctx context.Context, id string, metadata *string) error {
	if !isUUID(id) {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`UPDATE %s SET metadata = $1 WHERE id = $2`, r.tables.Materi)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, metadata, id)
	if err != nil {
		return fmt.Errorf("update materi metadata: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a materi
func (r *PostgresMateriRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Materi)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete materi: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("materi %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanMateri(row pgx.Row) (*models.Materi, error) {
	var materi models.Materi
	err := row.Scan(
		&materi.ID,
		&materi.Title,
		&materi.Description,
		&materi.ContentURL,
		&materi.ContentType,
		&materi.Metadata,
		&materi.AuthorID,
		&materi.AuthorUsername,
		&materi.CreatedAt,
		&materi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &materi, nil
}
