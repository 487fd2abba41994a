package handler

import (
	"log/slog"
	"net/http"

	"workbench/internal/domain/models"
	"workbench/internal/domain/services"
	"workbench/internal/httputil"
)

// PermissionHandler handles sharing HTTP requests
type PermissionHandler struct {
	permService services.PermissionService
	logger      *slog.Logger
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permService services.PermissionService, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permService: permService,
		logger:      logger,
	}
}

// Grant creates or replaces a grant on an owned item
// PUT /api/items/{id}/permissions
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	var req models.SetPermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.permService.Grant(r.Context(), httputil.GetUserID(r), id, &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "permission saved"})
}

// Revoke removes a user's grant from an owned item
// DELETE /api/items/{id}/permissions/{userId}
func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	targetID := r.PathValue("userId")
	if id == "" || targetID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID and user ID are required")
		return
	}

	if err := h.permService.Revoke(r.Context(), httputil.GetUserID(r), id, targetID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns every grant on an owned item
// GET /api/items/{id}/permissions
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	grants, err := h.permService.ListForItem(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, grants)
}

// ShareTargets lists users the caller can grant to
// GET /api/users
func (h *PermissionHandler) ShareTargets(w http.ResponseWriter, r *http.Request) {
	users, err := h.permService.ListShareTargets(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}
