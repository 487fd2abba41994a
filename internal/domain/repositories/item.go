package repositories

import (
	"context"

	"workbench/internal/domain/models"
)

// ItemRepository defines data access for hierarchy nodes. Every tree walk is
// expressed here as a storage-side query so services stay stateless.
type ItemRepository interface {
	// Create inserts the item and fills in its id and timestamps.
	Create(ctx context.Context, item *models.Item) error

	// GetByID retrieves an item regardless of owner.
	GetByID(ctx context.Context, id string) (*models.Item, error)

	// Update persists name, extension and updated_at.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes a single item row.
	Delete(ctx context.Context, id string) error

	// DeleteByIDs removes a set of item rows in one statement.
	DeleteByIDs(ctx context.Context, ids []string) error

	// ListChildren lists items owned by ownerID under parentID
	// (nil = root), folders before files, then by name.
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Item, error)

	// SubtreeIDs returns the ids of the item and every descendant.
	SubtreeIDs(ctx context.Context, rootID string) ([]string, error)

	// ListSharedRoots returns root items owned by others that are
	// reachable by viewerID through a view grant on the item itself or
	// on one of its descendants.
	ListSharedRoots(ctx context.Context, viewerID string) ([]models.Item, error)

	// ListVisiblePathChildren returns the children of parentID that lie
	// on a path from parentID down to an item carrying a view grant for
	// viewerID (the ghost-ancestor skeleton).
	ListVisiblePathChildren(ctx context.Context, viewerID, parentID string) ([]models.Item, error)
}
