package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cliftbar/mapviewer/internal/codec"
	"github.com/cliftbar/mapviewer/internal/storage"
)

// errorResponse is the JSON body for every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v with the given status. Encoding failures are
// logged, not surfaced; headers are already gone by then.
func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps domain errors onto HTTP statuses: not-found
// conditions are 404, validation problems 400/409, everything else a
// 500 that the client may retry.
func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrTrackNotFound),
		errors.Is(err, storage.ErrFolderNotFound),
		errors.Is(err, storage.ErrProfileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrFolderCycle):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrProfileProtected):
		status = http.StatusForbidden
	case errors.Is(err, codec.ErrUnknownFormat):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	}
	writeJSON(logger, w, status, errorResponse{Error: err.Error()})
}

// decodeBody unmarshals a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
