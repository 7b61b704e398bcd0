package handlers

import (
	"net/http"

	"galaxy-server/internal/shared/response"
)

// GetPresets lists the available morphology presets so clients can
// offer them at galaxy creation.
func (h *GalaxyHandler) GetPresets(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.service.Presets())
}
