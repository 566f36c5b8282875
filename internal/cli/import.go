package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cliftbar/mapviewer/internal/appcfg"
	"github.com/cliftbar/mapviewer/internal/codec"
	"github.com/cliftbar/mapviewer/internal/platform"
	"github.com/cliftbar/mapviewer/internal/storage/sqlite"
	"github.com/cliftbar/mapviewer/internal/tracks"
	"github.com/cliftbar/mapviewer/internal/worker"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tracks from a GPX or GeoJSON file",
	Long: `Import tracks from a GPX or GeoJSON file.

The format is taken from the file extension unless --format is given.

Examples:
  mapviewer import ride.gpx
  mapviewer import trails.json --format geojson`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := resolveFormat(path, formatFlag)
		if err != nil {
			return err
		}

		content, ok, err := (platform.LocalFile{Path: path}).Pick(nil)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !ok {
			return fmt.Errorf("file %s does not exist", path)
		}

		logger := newLogger()
		settings := appcfg.Load(logger)

		store, err := sqlite.New(cmd.Context(), settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open track database: %w", err)
		}
		defer func() { _ = store.Close() }()

		svc := tracks.NewService(logger, store, worker.NewPool(settings.Workers))
		imported, err := svc.Import(cmd.Context(), content, format)
		if err != nil {
			return err
		}

		if len(imported) == 0 {
			fmt.Println("No tracks imported; the file did not contain usable track data.")
			return nil
		}
		for _, track := range imported {
			fmt.Printf("%s %s (%d points, id %s)\n",
				color.GreenString("imported"), track.Name, track.PointCount(), track.ID)
		}
		return nil
	},
}

// resolveFormat derives the codec format from an explicit flag or the
// file extension.
func resolveFormat(path, flag string) (codec.Format, error) {
	if flag != "" {
		return codec.ParseFormat(flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return codec.FormatGPX, nil
	case ".geojson", ".json":
		return codec.FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q, use --format", path)
	}
}

func init() {
	importCmd.Flags().String("format", "", "document format (gpx or geojson)")
	rootCmd.AddCommand(importCmd)
}
