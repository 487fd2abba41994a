package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
)

const uploadedFileColumns = "id, stored_name, original_name, size_bytes, mime_type, owner_id, parent_id, created_at"

// PostgresUploadedFileRepository implements UploadedFileRepository.
type PostgresUploadedFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUploadedFileRepository creates a new uploaded-file repository.
func NewUploadedFileRepository(config *RepositoryConfig) repositories.UploadedFileRepository {
	return &PostgresUploadedFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanUploadedFile(row pgx.Row) (*models.UploadedFile, error) {
	var f models.UploadedFile
	err := row.Scan(
		&f.ID,
		&f.StoredName,
		&f.OriginalName,
		&f.SizeBytes,
		&f.MimeType,
		&f.OwnerID,
		&f.ParentID,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanUploadedFiles(rows pgx.Rows) ([]models.UploadedFile, error) {
	defer rows.Close()

	var files []models.UploadedFile
	for rows.Next() {
		f, err := scanUploadedFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan uploaded file: %w", err)
		}
		files = append(files, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploaded files: %w", err)
	}

	return files, nil
}

// Create inserts the record and fills in its id and created_at.
func (r *PostgresUploadedFileRepository) Create(ctx context.Context, file *models.UploadedFile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (stored_name, original_name, size_bytes, mime_type, owner_id, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.UploadedFiles)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		file.StoredName,
		file.OriginalName,
		file.SizeBytes,
		file.MimeType,
		file.OwnerID,
		file.ParentID,
	).Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent of upload '%s': %w", file.OriginalName, domain.ErrNotFound)
		}
		return fmt.Errorf("create uploaded file: %w", err)
	}

	return nil
}

// GetByID retrieves a record regardless of owner.
func (r *PostgresUploadedFileRepository) GetByID(ctx context.Context, id string) (*models.UploadedFile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, uploadedFileColumns, r.tables.UploadedFiles)

	f, err := scanUploadedFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("uploaded file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get uploaded file: %w", err)
	}

	return f, nil
}

// Delete removes a single record.
func (r *PostgresUploadedFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.UploadedFiles)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete uploaded file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("uploaded file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByParent lists records owned by ownerID under parentID (nil = root).
func (r *PostgresUploadedFileRepository) ListByParent(ctx context.Context, ownerID string, parentID *string) ([]models.UploadedFile, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY original_name ASC
		`, uploadedFileColumns, r.tables.UploadedFiles)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY original_name ASC
		`, uploadedFileColumns, r.tables.UploadedFiles)
		args = append(args, ownerID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uploaded files: %w", err)
	}

	return scanUploadedFiles(rows)
}

// ListUnderFolders returns every record parented by one of the given
// folders; used to collect blob keys before a cascading delete.
func (r *PostgresUploadedFileRepository) ListUnderFolders(ctx context.Context, folderIDs []string) ([]models.UploadedFile, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = ANY($1)
	`, uploadedFileColumns, r.tables.UploadedFiles)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list uploaded files under folders: %w", err)
	}

	return scanUploadedFiles(rows)
}

// DeleteUnderFolders removes every record under the given folders.
func (r *PostgresUploadedFileRepository) DeleteUnderFolders(ctx context.Context, folderIDs []string) error {
	if len(folderIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE parent_id = ANY($1)`, r.tables.UploadedFiles)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderIDs); err != nil {
		return fmt.Errorf("delete uploaded files under folders: %w", err)
	}

	return nil
}
