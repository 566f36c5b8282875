package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
	"github.com/cliftbar/mapviewer/internal/tracks"
	"github.com/cliftbar/mapviewer/internal/worker"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, ":0", Deps{
		Tracks:   store,
		Folders:  store,
		Config:   config.NewService(context.Background(), logger, store, nil),
		TrackSvc: tracks.NewService(logger, store, worker.NewPool(2)),
		Version:  "test",
	})
	return srv.Handler()
}

func TestServer_Routes(t *testing.T) {
	handler := setupServer(t)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ok"`)
	})

	t.Run("import then list then export", func(t *testing.T) {
		doc := `<gpx><trk><name>Ridge</name><trkseg><trkpt lat="45.1" lon="-122.1"/></trkseg></trk></gpx>`
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/import?format=gpx", strings.NewReader(doc)))
		require.Equal(t, http.StatusOK, w.Code)

		var imported []models.Track
		require.NoError(t, json.NewDecoder(w.Body).Decode(&imported))
		require.Len(t, imported, 1)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tracks", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+imported[0].ID+"/export?format=gpx", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<name>Ridge</name>")
	})

	t.Run("config round-trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var cfg models.Config
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
		assert.Equal(t, models.DefaultConfig(), cfg)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/config", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestServer_PanicAnswers500(t *testing.T) {
	// A nil config service makes GET /api/v1/config panic; the recovery
	// middleware must turn that into a 500.
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, ":0", Deps{
		Tracks:   store,
		Folders:  store,
		Config:   nil,
		TrackSvc: tracks.NewService(logger, store, worker.NewPool(1)),
		Version:  "test",
	})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
