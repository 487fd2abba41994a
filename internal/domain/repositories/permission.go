package repositories

import (
	"context"

	"workbench/internal/domain/models"
)

// PermissionRepository defines data access for access grants.
type PermissionRepository interface {
	// Upsert inserts or replaces the grant for (item, user); the unique
	// key guarantees at most one row per pair.
	Upsert(ctx context.Context, perm *models.Permission) error

	// Get returns the direct grant for (item, user), or nil if none.
	Get(ctx context.Context, itemID, userID string) (*models.Permission, error)

	// Delete removes the grant for (item, user).
	Delete(ctx context.Context, itemID, userID string) error

	// ListForItem returns all grants on an item joined with grantee
	// identity, ordered by grantee email.
	ListForItem(ctx context.Context, itemID string) ([]models.PermissionGrant, error)

	// SubtreeHasViewGrant reports whether the item or any descendant
	// carries a can_view grant for userID. Existence check only; the
	// query short-circuits on first match.
	SubtreeHasViewGrant(ctx context.Context, itemID, userID string) (bool, error)
}
