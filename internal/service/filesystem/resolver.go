package filesystem

import (
	"context"
	"errors"
	"log/slog"

	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
)

// resolver implements PermissionResolver over the permission and item
// repositories. It is read-only and never reports "no access" as an error.
type resolver struct {
	itemRepo repositories.ItemRepository
	permRepo repositories.PermissionRepository
	logger   *slog.Logger
}

// NewPermissionResolver creates a new permission resolver.
func NewPermissionResolver(
	itemRepo repositories.ItemRepository,
	permRepo repositories.PermissionRepository,
	logger *slog.Logger,
) services.PermissionResolver {
	return &resolver{
		itemRepo: itemRepo,
		permRepo: permRepo,
		logger:   logger,
	}
}

// EffectiveCapabilities resolves the capability set for a user on an item.
// Owners hold every capability; other users hold exactly their direct grant,
// or nothing. A missing item resolves to no capabilities rather than an
// error so callers can map it to 403/404 at the boundary.
func (r *resolver) EffectiveCapabilities(ctx context.Context, userID, itemID string) (models.Capabilities, error) {
	item, err := r.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Capabilities{}, nil
		}
		return models.Capabilities{}, err
	}

	if item.OwnerID == userID {
		return models.AllCapabilities(), nil
	}

	perm, err := r.permRepo.Get(ctx, itemID, userID)
	if err != nil {
		return models.Capabilities{}, err
	}
	if perm == nil {
		return models.Capabilities{}, nil
	}

	return perm.Capabilities, nil
}

// CanView reports whether userID may see the item at all: as owner, through
// a direct view grant, or because some descendant carries one (which makes
// this item part of a shared path skeleton).
func (r *resolver) CanView(ctx context.Context, userID string, item *models.Item) (bool, error) {
	if item.OwnerID == userID {
		return true, nil
	}

	perm, err := r.permRepo.Get(ctx, item.ID, userID)
	if err != nil {
		return false, err
	}
	if perm != nil && perm.CanView {
		return true, nil
	}

	// No direct grant; the item is still visible if it sits above a
	// granted descendant.
	return r.permRepo.SubtreeHasViewGrant(ctx, item.ID, userID)
}

// SubtreeShared reports whether the item or any descendant carries a view
// grant for userID.
func (r *resolver) SubtreeShared(ctx context.Context, userID, itemID string) (bool, error) {
	return r.permRepo.SubtreeHasViewGrant(ctx, itemID, userID)
}
