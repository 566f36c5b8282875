// Package server assembles the HTTP API: routing, middleware and
// graceful shutdown around the track, folder and config services.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/server/handlers"
	"github.com/cliftbar/mapviewer/internal/server/middleware"
	"github.com/cliftbar/mapviewer/internal/storage"
	"github.com/cliftbar/mapviewer/internal/tracks"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the application.
type Server struct {
	logger *slog.Logger
	http   *http.Server
}

// Deps carries everything the route handlers need.
type Deps struct {
	Tracks   storage.TrackStorage
	Folders  storage.FolderStorage
	Config   *config.Service
	TrackSvc *tracks.Service
	Version  string
}

// New builds the server with all routes registered.
func New(logger *slog.Logger, addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(logger, deps.Version)
	trackH := handlers.NewTracksHandler(logger, deps.Tracks)
	folderH := handlers.NewFoldersHandler(logger, deps.Folders)
	configH := handlers.NewConfigHandler(logger, deps.Config)
	ioH := handlers.NewImportExportHandler(logger, deps.TrackSvc)

	mux.HandleFunc("GET /api/v1/health", health.Health)

	mux.HandleFunc("GET /api/v1/tracks", trackH.List)
	mux.HandleFunc("POST /api/v1/tracks", trackH.Save)
	mux.HandleFunc("GET /api/v1/tracks/{id}", trackH.Get)
	mux.HandleFunc("DELETE /api/v1/tracks/{id}", trackH.Delete)
	mux.HandleFunc("PATCH /api/v1/tracks/{id}/visibility", trackH.UpdateVisibility)
	mux.HandleFunc("PATCH /api/v1/tracks/{id}/style", trackH.UpdateStyle)
	mux.HandleFunc("GET /api/v1/tracks/{id}/folders", folderH.FoldersForTrack)
	mux.HandleFunc("GET /api/v1/tracks/{id}/export", ioH.Export)

	mux.HandleFunc("GET /api/v1/folders", folderH.Hierarchy)
	mux.HandleFunc("POST /api/v1/folders", folderH.Create)
	mux.HandleFunc("DELETE /api/v1/folders/{id}", folderH.Delete)
	mux.HandleFunc("PATCH /api/v1/folders/{id}/name", folderH.Rename)
	mux.HandleFunc("PATCH /api/v1/folders/{id}/parent", folderH.Move)
	mux.HandleFunc("POST /api/v1/folders/{id}/tracks", folderH.AddTracks)
	mux.HandleFunc("DELETE /api/v1/folders/{id}/tracks", folderH.RemoveTracks)

	mux.HandleFunc("POST /api/v1/import", ioH.Import)

	mux.HandleFunc("GET /api/v1/config", configH.GetActive)
	mux.HandleFunc("PUT /api/v1/config", configH.SaveActive)
	mux.HandleFunc("GET /api/v1/profiles", configH.ListProfiles)
	mux.HandleFunc("GET /api/v1/profiles/{name}", configH.GetProfile)
	mux.HandleFunc("PUT /api/v1/profiles/{name}", configH.SaveProfile)
	mux.HandleFunc("POST /api/v1/profiles/{name}/activate", configH.Activate)
	mux.HandleFunc("DELETE /api/v1/profiles/{name}", configH.DeleteProfile)

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger: logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the assembled middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
