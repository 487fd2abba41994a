package services

import (
	"context"
	"io"

	"workbench/internal/domain/models"
)

// PermissionResolver answers "may user U do C to item I". It never mutates
// anything; "no access" is a value, not an error.
type PermissionResolver interface {
	// EffectiveCapabilities resolves the capability set: owners get all
	// capabilities, everyone else gets their direct grant or nothing.
	// A missing item resolves to no capabilities.
	EffectiveCapabilities(ctx context.Context, userID, itemID string) (models.Capabilities, error)

	// CanView reports whether userID may see the item at all: owner,
	// direct view grant, or a view grant somewhere in the subtree below
	// it (the ghost-ancestor rule).
	CanView(ctx context.Context, userID string, item *models.Item) (bool, error)

	// SubtreeShared reports whether the item or any descendant carries a
	// view grant for userID.
	SubtreeShared(ctx context.Context, userID, itemID string) (bool, error)
}

// TreeService mutates the item hierarchy.
type TreeService interface {
	// CreateItem validates name, kind, extension and parent, then
	// inserts the node.
	CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)

	// RenameItem renames an owned item in place, re-validating the
	// extension for files.
	RenameItem(ctx context.Context, userID, itemID, newName string) (*models.Item, error)

	// DeleteItem deletes an owned item; folders cascade to every
	// descendant item, grant and uploaded file in one transaction.
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// StructureService assembles the forest a user sees.
type StructureService interface {
	// GetRootStructure returns owned root entries plus ghost roots made
	// reachable by a descendant grant.
	GetRootStructure(ctx context.Context, userID string) (*models.Structure, error)

	// GetChildren returns the direct children of a folder the user may
	// view, or ErrForbidden.
	GetChildren(ctx context.Context, userID, parentID string) (*models.Structure, error)
}

// PermissionService manages grants. Owner-only on every operation.
type PermissionService interface {
	Grant(ctx context.Context, ownerID, itemID string, req *models.SetPermissionRequest) error
	Revoke(ctx context.Context, ownerID, itemID, targetUserID string) error
	ListForItem(ctx context.Context, ownerID, itemID string) ([]models.PermissionGrant, error)

	// ListShareTargets lists every user the owner could grant to.
	ListShareTargets(ctx context.Context, ownerID string) ([]models.UserSummary, error)
}

// UploadRequest carries one incoming blob.
type UploadRequest struct {
	OwnerID      string
	ParentID     *string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Body         io.Reader
}

// UploadService stores blobs and their metadata rows.
type UploadService interface {
	Upload(ctx context.Context, req *UploadRequest) (*models.UploadedFile, error)

	// Download streams an owned blob; the caller closes the reader.
	Download(ctx context.Context, userID, fileID string) (io.ReadCloser, *models.UploadedFile, error)

	// Delete removes the metadata row, then the blob best-effort.
	Delete(ctx context.Context, userID, fileID string) error
}
