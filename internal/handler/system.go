package handler

import (
	"net/http"

	"workbench/internal/httputil"
	"workbench/internal/service/filesystem"
)

// SystemHandler serves health and static configuration endpoints
type SystemHandler struct {
	extensions *filesystem.ExtensionRegistry
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(extensions *filesystem.ExtensionRegistry) *SystemHandler {
	return &SystemHandler{extensions: extensions}
}

// HealthCheck reports liveness
// GET /health
func (h *SystemHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Extensions lists the accepted file extensions
// GET /api/extensions
func (h *SystemHandler) Extensions(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"extensions": h.extensions.All(),
	})
}
