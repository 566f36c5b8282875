package models

import "strings"

// ActiveProfile is the distinguished profile name whose stored value
// drives the running application. It can never be deleted.
const ActiveProfile = "config"

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeSystem Theme = "SYSTEM"
	ThemeLight  Theme = "LIGHT"
	ThemeDark   Theme = "DARK"
)

// ParseTheme converts a stored string into a Theme, defaulting to
// SYSTEM for anything unrecognized.
func ParseTheme(s string) Theme {
	switch Theme(strings.ToUpper(s)) {
	case ThemeSystem, ThemeLight, ThemeDark:
		return Theme(strings.ToUpper(s))
	default:
		return ThemeSystem
	}
}

// Config is one map-view profile: initial viewport, active layers and
// appearance. Profiles are stored as serialized blobs keyed by name.
type Config struct {
	DefaultZoom      int      `json:"defaultZoom" yaml:"defaultZoom"`
	InitialLat       float64  `json:"initialLat" yaml:"initialLat"`
	InitialLon       float64  `json:"initialLon" yaml:"initialLon"`
	ActiveBaseMapID  string   `json:"activeBaseMapId" yaml:"activeBaseMapId"`
	ActiveOverlayIDs []string `json:"activeOverlayIds" yaml:"activeOverlayIds"`
	OfflineMode      bool     `json:"offlineMode" yaml:"offlineMode"`
	Theme            Theme    `json:"theme" yaml:"theme"`
}

// DefaultConfig returns the configuration used when nothing is stored
// or the stored blob fails to parse.
func DefaultConfig() Config {
	return Config{
		DefaultZoom:     12,
		InitialLat:      45.5152,
		InitialLon:      -122.6784,
		ActiveBaseMapID: "osm",
		OfflineMode:     false,
		Theme:           ThemeSystem,
	}
}
