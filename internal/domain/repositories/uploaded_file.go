package repositories

import (
	"context"

	"workbench/internal/domain/models"
)

// UploadedFileRepository defines data access for uploaded-blob metadata.
type UploadedFileRepository interface {
	// Create inserts the record and fills in its id and created_at.
	Create(ctx context.Context, file *models.UploadedFile) error

	// GetByID retrieves a record regardless of owner.
	GetByID(ctx context.Context, id string) (*models.UploadedFile, error)

	// Delete removes a single record.
	Delete(ctx context.Context, id string) error

	// ListByParent lists records owned by ownerID under parentID
	// (nil = root), sorted by original name.
	ListByParent(ctx context.Context, ownerID string, parentID *string) ([]models.UploadedFile, error)

	// ListUnderFolders returns every record whose parent is one of the
	// given folder ids; used to collect blob keys before a cascade.
	ListUnderFolders(ctx context.Context, folderIDs []string) ([]models.UploadedFile, error)

	// DeleteUnderFolders removes every record under the given folders.
	DeleteUnderFolders(ctx context.Context, folderIDs []string) error
}
