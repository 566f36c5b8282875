package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cliftbar/mapviewer/internal/appcfg"
	"github.com/cliftbar/mapviewer/internal/platform"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
	"github.com/cliftbar/mapviewer/internal/tracks"
	"github.com/cliftbar/mapviewer/internal/worker"
)

var exportCmd = &cobra.Command{
	Use:   "export <track-id> <file>",
	Short: "Export a stored track to a GPX or GeoJSON file",
	Long: `Export a stored track to a GPX or GeoJSON file.

The format is taken from the target file extension unless --format is
given. Track ids are printed by import and by the HTTP API.

Examples:
  mapviewer export 9f6c1e2a ride.gpx
  mapviewer export 9f6c1e2a ride.json --format geojson`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, path := args[0], args[1]

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := resolveFormat(path, formatFlag)
		if err != nil {
			return err
		}

		logger := newLogger()
		settings := appcfg.Load(logger)

		store, err := sqlite.New(cmd.Context(), settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open track database: %w", err)
		}
		defer func() { _ = store.Close() }()

		svc := tracks.NewService(logger, store, worker.NewPool(settings.Workers))
		doc, err := svc.ExportByID(cmd.Context(), id, format)
		if err != nil {
			return err
		}

		if err := (platform.LocalFile{}).Save(path, doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Printf("%s track %s to %s\n", color.GreenString("exported"), id, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "", "document format (gpx or geojson)")
	rootCmd.AddCommand(exportCmd)
}
