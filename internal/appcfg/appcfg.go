// Package appcfg loads process-level settings from the environment,
// optionally seeded from a .env file. These are deployment knobs
// (paths, addresses), not the map-view Config profiles managed by
// internal/config.
package appcfg

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings stores the application configuration.
type Settings struct {
	ListenAddr    string // HTTP listen address
	DBPath        string // SQLite database file
	ProfileStore  string // "sqlite" (default) or "bolt"
	ProfileDBPath string // BoltDB file, used when ProfileStore is "bolt"
	OverlayPath   string // YAML overlay for the active config profile
	Workers       int    // background worker pool size
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads settings from environment variables (via .env file) or defaults.
func Load(logger *slog.Logger) *Settings {
	// godotenv.Load never overrides variables already set in the
	// environment.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file, using environment and defaults")
	}

	return &Settings{
		ListenAddr:    getEnv("MAPVIEWER_LISTEN_ADDR", ":8080"),
		DBPath:        getEnv("MAPVIEWER_DB_PATH", "mapviewer.db"),
		ProfileStore:  getEnv("MAPVIEWER_PROFILE_STORE", "sqlite"),
		ProfileDBPath: getEnv("MAPVIEWER_PROFILE_DB_PATH", "profiles.db"),
		OverlayPath:   getEnv("MAPVIEWER_OVERLAY_PATH", "config.yaml"),
		Workers:       getEnvInt("MAPVIEWER_WORKERS", 4),
	}
}
