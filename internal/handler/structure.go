package handler

import (
	"log/slog"
	"net/http"

	"workbench/internal/domain/services"
	"workbench/internal/httputil"
)

// StructureHandler serves folder listings
type StructureHandler struct {
	structureService services.StructureService
	logger           *slog.Logger
}

// NewStructureHandler creates a new structure handler
func NewStructureHandler(structureService services.StructureService, logger *slog.Logger) *StructureHandler {
	return &StructureHandler{
		structureService: structureService,
		logger:           logger,
	}
}

// Root returns the user's root-level forest, shared ghosts included
// GET /api/structure
func (h *StructureHandler) Root(w http.ResponseWriter, r *http.Request) {
	structure, err := h.structureService.GetRootStructure(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}

// Children returns the direct children of a folder
// GET /api/structure/{id}
func (h *StructureHandler) Children(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	structure, err := h.structureService.GetChildren(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, structure)
}
