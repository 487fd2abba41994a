package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"workbench/internal/config"
	"workbench/internal/domain/services"
	"workbench/internal/httputil"
)

// UploadHandler handles blob upload and download requests
type UploadHandler struct {
	uploadService services.UploadService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService services.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// Upload accepts one multipart file under the "file" field
// POST /api/uploads
//
// An optional "parent_id" form field places the file inside a folder.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	req := &services.UploadRequest{
		OwnerID:      httputil.GetUserID(r),
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		Body:         file,
	}
	if parentID := r.FormValue("parent_id"); parentID != "" {
		req.ParentID = &parentID
	}

	uploaded, err := h.uploadService.Upload(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, uploaded)
}

// Download streams a stored blob back under its original name
// GET /api/uploads/{id}
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file ID is required")
		return
	}

	body, file, err := h.uploadService.Download(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.SizeBytes))

	if _, err := io.Copy(w, body); err != nil {
		// Headers are gone; all we can do is log.
		h.logger.Warn("download stream interrupted", "file_id", id, "error", err)
	}
}

// Delete removes an uploaded file
// DELETE /api/uploads/{id}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file ID is required")
		return
	}

	if err := h.uploadService.Delete(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
