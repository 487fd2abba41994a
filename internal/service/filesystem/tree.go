package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"workbench/internal/config"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
	"workbench/internal/storage"
)

type treeService struct {
	itemRepo   repositories.ItemRepository
	uploadRepo repositories.UploadedFileRepository
	txManager  repositories.TransactionManager
	blobs      storage.BlobStore
	extensions *ExtensionRegistry
	logger     *slog.Logger
}

// NewTreeService creates a new tree service.
func NewTreeService(
	itemRepo repositories.ItemRepository,
	uploadRepo repositories.UploadedFileRepository,
	txManager repositories.TransactionManager,
	blobs storage.BlobStore,
	extensions *ExtensionRegistry,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
		txManager:  txManager,
		blobs:      blobs,
		extensions: extensions,
		logger:     logger,
	}
}

// CreateItem creates a folder or file node. The parent, when given, must be
// a folder owned by the same user. File names must end in a recognized
// extension; the matched suffix is stored alongside the row.
func (s *treeService) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	// Normalize empty string to nil for root-level items
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validateCreateItem(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item := &models.Item{
		Name:     req.Name,
		Kind:     req.Kind,
		OwnerID:  req.OwnerID,
		ParentID: req.ParentID,
	}

	if req.Kind == models.KindFile {
		ext, ok := s.extensions.Match(req.Name)
		if !ok {
			return nil, fmt.Errorf("%w: file name %q has no recognized extension", domain.ErrValidation, req.Name)
		}
		item.Extension = &ext
	}

	if req.ParentID != nil {
		parent, err := s.itemRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
			}
			return nil, err
		}
		if parent.OwnerID != req.OwnerID {
			return nil, fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		if !parent.IsFolder() {
			return nil, fmt.Errorf("%w: parent %q is not a folder", domain.ErrValidation, parent.Name)
		}
	}

	// Duplicate names under one parent are a conflict, not a silent merge.
	siblings, err := s.itemRepo.ListChildren(ctx, req.OwnerID, req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.Name == req.Name && sibling.Kind == req.Kind {
			return nil, fmt.Errorf("%w: a %s named %q already exists here", domain.ErrConflict, req.Kind, req.Name)
		}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"item_id", item.ID,
		"kind", item.Kind,
		"owner_id", item.OwnerID,
	)
	return item, nil
}

// RenameItem renames an owned item. Files re-validate their extension
// against the new name.
func (s *treeService) RenameItem(ctx context.Context, userID, itemID, newName string) (*models.Item, error) {
	newName = strings.TrimSpace(newName)
	if err := validation.Validate(newName,
		validation.Required,
		validation.Length(1, config.MaxItemNameLength),
	); err != nil {
		return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, domain.ErrNotFound
	}

	if item.Kind == models.KindFile {
		ext, ok := s.extensions.Match(newName)
		if !ok {
			return nil, fmt.Errorf("%w: file name %q has no recognized extension", domain.ErrValidation, newName)
		}
		item.Extension = &ext
	}

	siblings, err := s.itemRepo.ListChildren(ctx, userID, item.ParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID != item.ID && sibling.Name == newName && sibling.Kind == item.Kind {
			return nil, fmt.Errorf("%w: a %s named %q already exists here", domain.ErrConflict, item.Kind, newName)
		}
	}

	item.Name = newName
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes an owned item. For folders the whole subtree goes in
// one transaction: descendant items, their grants (FK cascade) and their
// uploaded-file rows. Blob payloads are unlinked after commit; a failed
// unlink only orphans bytes, never rows.
func (s *treeService) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return domain.ErrNotFound
	}

	var orphanKeys []string
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		ids, err := s.itemRepo.SubtreeIDs(txCtx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to collect subtree: %w", err)
		}

		uploads, err := s.uploadRepo.ListUnderFolders(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to collect uploads: %w", err)
		}
		for _, u := range uploads {
			orphanKeys = append(orphanKeys, u.StoredName)
		}

		if err := s.uploadRepo.DeleteUnderFolders(txCtx, ids); err != nil {
			return fmt.Errorf("failed to delete uploads: %w", err)
		}
		if err := s.itemRepo.DeleteByIDs(txCtx, ids); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range orphanKeys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to unlink blob after cascade",
				"key", key,
				"item_id", itemID,
				"error", err,
			)
		}
	}

	s.logger.Info("item deleted",
		"item_id", itemID,
		"kind", item.Kind,
		"blobs_removed", len(orphanKeys),
	)
	return nil
}

func validateCreateItem(req *models.CreateItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
		),
		validation.Field(&req.Kind,
			validation.Required,
			validation.In(models.KindFolder, models.KindFile),
		),
	)
}
