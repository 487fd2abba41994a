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

type structureService struct {
	itemRepo   repositories.ItemRepository
	uploadRepo repositories.UploadedFileRepository
	resolver   services.PermissionResolver
	logger     *slog.Logger
}

// NewStructureService creates a new structure service.
func NewStructureService(
	itemRepo repositories.ItemRepository,
	uploadRepo repositories.UploadedFileRepository,
	resolver services.PermissionResolver,
	logger *slog.Logger,
) services.StructureService {
	return &structureService{
		itemRepo:   itemRepo,
		uploadRepo: uploadRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// GetRootStructure returns the forest the user sees at root level: their own
// root items and root uploads, plus foreign root folders made reachable by a
// grant somewhere below them.
func (s *structureService) GetRootStructure(ctx context.Context, userID string) (*models.Structure, error) {
	owned, err := s.itemRepo.ListChildren(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	uploads, err := s.uploadRepo.ListByParent(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	shared, err := s.itemRepo.ListSharedRoots(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &models.Structure{
		Folders: []models.StructureEntry{},
		Files:   []models.StructureEntry{},
	}
	for _, it := range owned {
		st.Add(models.EntryFromItem(it))
	}
	for _, f := range uploads {
		st.Files = append(st.Files, models.EntryFromUpload(f))
	}
	for _, it := range shared {
		entry := models.EntryFromItem(it)
		entry.Shared = true
		st.Add(entry)
	}
	return st, nil
}

// GetChildren lists the direct children of a folder. Owners and direct
// view-grant holders get the full listing; a viewer whose only access comes
// from a grant deeper in the subtree gets just the children on the path down
// to their grant. Anyone else gets ErrForbidden.
func (s *structureService) GetChildren(ctx context.Context, userID, parentID string) (*models.Structure, error) {
	parent, err := s.itemRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !parent.IsFolder() {
		return nil, domain.ErrForbidden
	}

	if parent.OwnerID == userID {
		return s.fullListing(ctx, parent.OwnerID, parent.ID, false)
	}

	caps, err := s.resolver.EffectiveCapabilities(ctx, userID, parent.ID)
	if err != nil {
		return nil, err
	}
	if caps.CanView {
		return s.fullListing(ctx, parent.OwnerID, parent.ID, true)
	}

	// No direct grant. The folder may still be a visible ancestor of a
	// granted item, in which case only the connecting path shows.
	reachable, err := s.resolver.SubtreeShared(ctx, userID, parent.ID)
	if err != nil {
		return nil, err
	}
	if !reachable {
		return nil, domain.ErrForbidden
	}

	children, err := s.itemRepo.ListVisiblePathChildren(ctx, userID, parent.ID)
	if err != nil {
		return nil, err
	}
	st := &models.Structure{
		Folders: []models.StructureEntry{},
		Files:   []models.StructureEntry{},
	}
	for _, it := range children {
		entry := models.EntryFromItem(it)
		entry.Shared = true
		st.Add(entry)
	}
	return st, nil
}

func (s *structureService) fullListing(ctx context.Context, ownerID, parentID string, shared bool) (*models.Structure, error) {
	pid := parentID
	items, err := s.itemRepo.ListChildren(ctx, ownerID, &pid)
	if err != nil {
		return nil, err
	}
	uploads, err := s.uploadRepo.ListByParent(ctx, ownerID, &pid)
	if err != nil {
		return nil, err
	}

	st := &models.Structure{
		Folders: []models.StructureEntry{},
		Files:   []models.StructureEntry{},
	}
	for _, it := range items {
		entry := models.EntryFromItem(it)
		entry.Shared = shared
		st.Add(entry)
	}
	for _, f := range uploads {
		entry := models.EntryFromUpload(f)
		entry.Shared = shared
		st.Files = append(st.Files, entry)
	}
	return st, nil
}
