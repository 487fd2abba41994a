package handler

import (
	"log/slog"
	"net/http"

	"workbench/internal/domain/models"
	"workbench/internal/domain/services"
	"workbench/internal/httputil"
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(treeService services.TreeService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// Create creates a new folder or file
// POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	item, err := h.treeService.CreateItem(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// Rename renames an item
// PATCH /api/items/{id}
func (h *ItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	var req models.RenameItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.treeService.RenameItem(r.Context(), httputil.GetUserID(r), id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// Delete deletes an item and, for folders, its whole subtree
// DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "item ID is required")
		return
	}

	if err := h.treeService.DeleteItem(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
