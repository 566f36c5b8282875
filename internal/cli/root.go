// Package cli implements the mapviewer command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// SetVersionInfo records build metadata injected via ldflags.
func SetVersionInfo(v, date, commit string) {
	version = v
	buildDate = date
	gitCommit = commit
}

var rootCmd = &cobra.Command{
	Use:   "mapviewer",
	Short: "Track storage, import/export and map-view profiles",
	Long: `mapviewer manages GPS tracks and map-view configuration profiles.

Tracks are stored in a local SQLite database, organized into folders
and exchanged as GPX or GeoJSON documents. The serve command exposes
the same operations over an HTTP API.

Examples:
  mapviewer serve
  mapviewer import ride.gpx
  mapviewer export 9f6c1e2a out.geojson
  mapviewer profiles list`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. MAPVIEWER_LOG_LEVEL selects the
// level, defaulting to info.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("MAPVIEWER_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
