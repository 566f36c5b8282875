package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cliftbar/mapviewer/internal/codec"
	"github.com/cliftbar/mapviewer/internal/tracks"
)

// ImportExportHandler moves tracks between wire documents and storage.
type ImportExportHandler struct {
	logger  *slog.Logger
	service *tracks.Service
}

// NewImportExportHandler creates a new import/export handler
func NewImportExportHandler(logger *slog.Logger, service *tracks.Service) *ImportExportHandler {
	return &ImportExportHandler{
		logger:  logger,
		service: service,
	}
}

// contentTypes maps export formats onto response media types.
var contentTypes = map[codec.Format]string{
	codec.FormatGPX:     "application/gpx+xml",
	codec.FormatGeoJSON: "application/geo+json",
}

// Import handles POST /api/v1/import?format=gpx|geojson with the raw
// document as the request body. Unparsable documents import zero
// tracks and still answer 200.
func (h *ImportExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	format, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(h.logger, w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}
	defer func() { _ = r.Body.Close() }()

	imported, err := h.service.Import(r.Context(), string(body), format)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(h.logger, w, http.StatusOK, imported)
}

// Export handles GET /api/v1/tracks/{id}/export?format=gpx|geojson and
// returns the serialized track document.
func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	doc, err := h.service.ExportByID(r.Context(), r.PathValue("id"), format)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		h.logger.Error("failed to write export response", slog.Any("error", err))
	}
}
