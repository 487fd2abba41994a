package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"workbench/internal/config"
	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
	"workbench/internal/storage"
)

type uploadService struct {
	uploadRepo repositories.UploadedFileRepository
	itemRepo   repositories.ItemRepository
	blobs      storage.BlobStore
	extensions *ExtensionRegistry
	logger     *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(
	uploadRepo repositories.UploadedFileRepository,
	itemRepo repositories.ItemRepository,
	blobs storage.BlobStore,
	extensions *ExtensionRegistry,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		itemRepo:   itemRepo,
		blobs:      blobs,
		extensions: extensions,
		logger:     logger,
	}
}

// Upload stores the blob under a server-assigned key, then records its
// metadata. The blob is written first so a failed insert leaves at worst an
// orphaned object, never a row pointing at nothing.
func (s *uploadService) Upload(ctx context.Context, req *services.UploadRequest) (*models.UploadedFile, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.OriginalName = strings.TrimSpace(req.OriginalName)

	if req.OriginalName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if req.Body == nil {
		return nil, fmt.Errorf("%w: file body is required", domain.ErrValidation)
	}
	if req.SizeBytes > config.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, config.MaxUploadBytes)
	}

	ext, ok := s.extensions.Match(req.OriginalName)
	if !ok {
		return nil, fmt.Errorf("%w: file name %q has no recognized extension", domain.ErrValidation, req.OriginalName)
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

	storedName := uuid.NewString() + ext
	if err := s.blobs.Put(ctx, storedName, req.Body); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	file := &models.UploadedFile{
		StoredName:   storedName,
		OriginalName: req.OriginalName,
		SizeBytes:    req.SizeBytes,
		MimeType:     req.MimeType,
		OwnerID:      req.OwnerID,
		ParentID:     req.ParentID,
	}
	if err := s.uploadRepo.Create(ctx, file); err != nil {
		if delErr := s.blobs.Delete(ctx, storedName); delErr != nil {
			s.logger.Warn("failed to unlink blob after insert failure",
				"key", storedName, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"file_id", file.ID,
		"owner_id", file.OwnerID,
		"size_bytes", file.SizeBytes,
	)
	return file, nil
}

// Download streams an owned blob with its metadata.
func (s *uploadService) Download(ctx context.Context, userID, fileID string) (io.ReadCloser, *models.UploadedFile, error) {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.blobs.Open(ctx, file.StoredName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload %s: %w", fileID, err)
	}
	return body, file, nil
}

// Delete removes the metadata row, then unlinks the blob best-effort.
func (s *uploadService) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.uploadRepo.Delete(ctx, file.ID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, file.StoredName); err != nil {
		s.logger.Warn("failed to unlink blob",
			"key", file.StoredName, "file_id", fileID, "error", err)
	}

	s.logger.Info("file deleted", "file_id", fileID, "owner_id", userID)
	return nil
}

func (s *uploadService) ownedFile(ctx context.Context, userID, fileID string) (*models.UploadedFile, error) {
	file, err := s.uploadRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != userID {
		return nil, domain.ErrNotFound
	}
	return file, nil
}
