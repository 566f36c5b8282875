package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cliftbar/mapviewer/internal/appcfg"
	"github.com/cliftbar/mapviewer/internal/config"
	"github.com/cliftbar/mapviewer/internal/server"
	"github.com/cliftbar/mapviewer/internal/storage"
	"github.com/cliftbar/mapviewer/internal/storage/boltdb"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
	"github.com/cliftbar/mapviewer/internal/tracks"
	"github.com/cliftbar/mapviewer/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Settings come from the environment (optionally seeded from a .env
file): MAPVIEWER_LISTEN_ADDR, MAPVIEWER_DB_PATH, MAPVIEWER_PROFILE_STORE,
MAPVIEWER_PROFILE_DB_PATH, MAPVIEWER_OVERLAY_PATH, MAPVIEWER_WORKERS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		settings := appcfg.Load(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := sqlite.New(ctx, settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open track database: %w", err)
		}
		defer func() { _ = store.Close() }()

		profileStore, closeProfiles, err := openProfileStore(ctx, settings, store)
		if err != nil {
			return err
		}
		defer closeProfiles()

		overlay := config.FileOverlay{Path: settings.OverlayPath}
		configSvc := config.NewService(ctx, logger, profileStore, overlay)
		if err := configSvc.WatchOverlay(ctx, settings.OverlayPath); err != nil {
			logger.Warn("overlay watching disabled", "error", err)
		}

		trackSvc := tracks.NewService(logger, store, worker.NewPool(settings.Workers))

		srv := server.New(logger, settings.ListenAddr, server.Deps{
			Tracks:   store,
			Folders:  store,
			Config:   configSvc,
			TrackSvc: trackSvc,
			Version:  version,
		})
		return srv.Run(ctx)
	},
}

// openProfileStore selects the config-profile backend. The sqlite
// backend shares the track database; bolt uses its own file.
func openProfileStore(ctx context.Context, settings *appcfg.Settings, store *sqlite.Storage) (storage.ConfigStorage, func(), error) {
	switch settings.ProfileStore {
	case "bolt":
		bolt, err := boltdb.New(ctx, settings.ProfileDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open profile database: %w", err)
		}
		return bolt, func() { _ = bolt.Close() }, nil
	case "sqlite":
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile store %q (want sqlite or bolt)", settings.ProfileStore)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
