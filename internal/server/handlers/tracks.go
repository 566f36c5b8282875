package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

// TracksHandler serves track CRUD and scalar updates.
type TracksHandler struct {
	logger  *slog.Logger
	storage storage.TrackStorage
}

// NewTracksHandler creates a new tracks handler
func NewTracksHandler(logger *slog.Logger, storage storage.TrackStorage) *TracksHandler {
	return &TracksHandler{
		logger:  logger,
		storage: storage,
	}
}

// List handles GET /api/v1/tracks[?visible=true]
func (h *TracksHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		tracks []models.Track
		err    error
	)
	if r.URL.Query().Get("visible") == "true" {
		tracks, err = h.storage.GetVisibleTracks(r.Context())
	} else {
		tracks, err = h.storage.GetAllTracks(r.Context())
	}
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, tracks)
}

// Get handles GET /api/v1/tracks/{id}
func (h *TracksHandler) Get(w http.ResponseWriter, r *http.Request) {
	track, err := h.storage.GetTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, track)
}

type saveTrackResponse struct {
	ID string `json:"id"`
}

// Save handles POST /api/v1/tracks with a Track body; the returned id
// is newly minted when the body carried none.
func (h *TracksHandler) Save(w http.ResponseWriter, r *http.Request) {
	var track models.Track
	if err := decodeBody(r, &track); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid track body: %v", err)})
		return
	}

	id, err := h.storage.SaveTrack(r.Context(), track)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, saveTrackResponse{ID: id})
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

// UpdateVisibility handles PATCH /api/v1/tracks/{id}/visibility
func (h *TracksHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	if err := h.storage.UpdateTrackVisibility(r.Context(), r.PathValue("id"), req.Visible); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type styleRequest struct {
	Color     string `json:"color"`
	LineStyle string `json:"lineStyle"`
}

// UpdateStyle handles PATCH /api/v1/tracks/{id}/style
func (h *TracksHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	var req styleRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	style := models.ParseLineStyle(req.LineStyle)
	if err := h.storage.UpdateTrackStyle(r.Context(), r.PathValue("id"), req.Color, style); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/tracks/{id}
func (h *TracksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.DeleteTrack(r.Context(), r.PathValue("id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
