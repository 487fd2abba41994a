package filesystem

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
)

type permissionService struct {
	itemRepo repositories.ItemRepository
	permRepo repositories.PermissionRepository
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewPermissionService creates a new permission service.
func NewPermissionService(
	itemRepo repositories.ItemRepository,
	permRepo repositories.PermissionRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) services.PermissionService {
	return &permissionService{
		itemRepo: itemRepo,
		permRepo: permRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Grant upserts a capability set for (item, user). Only the item's owner
// may grant, and never to themselves; their capabilities are implicit.
func (s *permissionService) Grant(ctx context.Context, ownerID, itemID string, req *models.SetPermissionRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	if req.UserID == ownerID {
		return fmt.Errorf("%w: cannot grant to the item's owner", domain.ErrValidation)
	}

	// The grantee must exist; a grant to a phantom id would never resolve.
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return fmt.Errorf("grantee: %w", err)
	}

	perm := &models.Permission{
		ItemID:       item.ID,
		UserID:       req.UserID,
		Capabilities: req.Capabilities,
	}
	if err := s.permRepo.Upsert(ctx, perm); err != nil {
		return err
	}

	s.logger.Info("permission granted",
		"item_id", item.ID,
		"grantee_id", req.UserID,
		"can_view", req.CanView,
	)
	return nil
}

// Revoke removes the grant for (item, user). Revoking a grant that does not
// exist is a no-op.
func (s *permissionService) Revoke(ctx context.Context, ownerID, itemID, targetUserID string) error {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	if err := s.permRepo.Delete(ctx, item.ID, targetUserID); err != nil {
		return err
	}

	s.logger.Info("permission revoked", "item_id", item.ID, "grantee_id", targetUserID)
	return nil
}

// ListForItem returns every grant on an owned item with grantee identity.
func (s *permissionService) ListForItem(ctx context.Context, ownerID, itemID string) ([]models.PermissionGrant, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return s.permRepo.ListForItem(ctx, item.ID)
}

// ListShareTargets returns every other user as a grant candidate.
func (s *permissionService) ListShareTargets(ctx context.Context, ownerID string) ([]models.UserSummary, error) {
	return s.userRepo.ListOthers(ctx, ownerID)
}

func (s *permissionService) ownedItem(ctx context.Context, ownerID, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
