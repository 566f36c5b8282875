package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cliftbar/mapviewer/internal/storage"
)

// FoldersHandler serves the folder hierarchy and track membership.
type FoldersHandler struct {
	logger  *slog.Logger
	storage storage.FolderStorage
}

// NewFoldersHandler creates a new folders handler
func NewFoldersHandler(logger *slog.Logger, storage storage.FolderStorage) *FoldersHandler {
	return &FoldersHandler{
		logger:  logger,
		storage: storage,
	}
}

// Hierarchy handles GET /api/v1/folders and returns the root folders
// with nested subfolders and track ids.
func (h *FoldersHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	folders, err := h.storage.GetFolderHierarchy(r.Context())
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, folders)
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

type createFolderResponse struct {
	ID string `json:"id"`
}

// Create handles POST /api/v1/folders
func (h *FoldersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	if req.Name == "" {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "folder name is required"})
		return
	}

	id, err := h.storage.CreateFolder(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusCreated, createFolderResponse{ID: id})
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

// Rename handles PATCH /api/v1/folders/{id}/name
func (h *FoldersHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	if err := h.storage.UpdateFolderName(r.Context(), r.PathValue("id"), req.Name); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveFolderRequest struct {
	ParentID *string `json:"parentId"`
}

// Move handles PATCH /api/v1/folders/{id}/parent. Moving a folder under
// its own descendant is rejected with 409.
func (h *FoldersHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveFolderRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	if err := h.storage.UpdateFolderParent(r.Context(), r.PathValue("id"), req.ParentID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/folders/{id}. Subfolders survive and
// are reattached to the deleted folder's parent.
func (h *FoldersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.DeleteFolder(r.Context(), r.PathValue("id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type membershipRequest struct {
	TrackIDs []string `json:"trackIds"`
}

// AddTracks handles POST /api/v1/folders/{id}/tracks
func (h *FoldersHandler) AddTracks(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	if err := h.storage.AddTracksToFolder(r.Context(), req.TrackIDs, r.PathValue("id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveTracks handles DELETE /api/v1/folders/{id}/tracks
func (h *FoldersHandler) RemoveTracks(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}

	if err := h.storage.RemoveTracksFromFolder(r.Context(), req.TrackIDs, r.PathValue("id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FoldersForTrack handles GET /api/v1/tracks/{id}/folders
func (h *FoldersHandler) FoldersForTrack(w http.ResponseWriter, r *http.Request) {
	folders, err := h.storage.GetFoldersForTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, folders)
}
