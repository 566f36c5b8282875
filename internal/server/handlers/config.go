package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/models"
)

// ConfigHandler serves the active map-view config and the profile set
// behind it.
type ConfigHandler struct {
	logger  *slog.Logger
	service *config.Service
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(logger *slog.Logger, service *config.Service) *ConfigHandler {
	return &ConfigHandler{
		logger:  logger,
		service: service,
	}
}

// GetActive handles GET /api/v1/config
func (h *ConfigHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, h.service.Active())
}

// SaveActive handles PUT /api/v1/config
func (h *ConfigHandler) SaveActive(w http.ResponseWriter, r *http.Request) {
	var cfg models.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid config body"})
		return
	}

	if err := h.service.SaveConfig(r.Context(), cfg, models.ActiveProfile); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProfiles handles GET /api/v1/profiles
func (h *ConfigHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.GetAllProfiles(r.Context())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, names)
}

// GetProfile handles GET /api/v1/profiles/{name}. Unknown names read as
// defaults, mirroring the load path of the running application.
func (h *ConfigHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	cfg := h.service.LoadConfig(r.Context(), r.PathValue("name"))
	writeJSON(h.logger, w, http.StatusOK, cfg)
}

// SaveProfile handles PUT /api/v1/profiles/{name}
func (h *ConfigHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var cfg models.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid config body"})
		return
	}

	if err := h.service.SaveConfig(r.Context(), cfg, r.PathValue("name")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /api/v1/profiles/{name}/activate and copies the
// named profile into the active slot.
func (h *ConfigHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SwitchProfile(r.Context(), r.PathValue("name")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProfile handles DELETE /api/v1/profiles/{name}. The active
// profile cannot be deleted.
func (h *ConfigHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProfile(r.Context(), r.PathValue("name")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
