package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineStyle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LineStyle
	}{
		{name: "solid", in: "SOLID", want: LineStyleSolid},
		{name: "dashed lowercase", in: "dashed", want: LineStyleDashed},
		{name: "dotted mixed case", in: "Dotted", want: LineStyleDotted},
		{name: "unknown falls back to solid", in: "wavy", want: LineStyleSolid},
		{name: "empty falls back to solid", in: "", want: LineStyleSolid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLineStyle(tt.in))
		})
	}
}

func TestNewTrack_Defaults(t *testing.T) {
	track := NewTrack("Morning Ride", []TrackSegment{
		{Points: []TrackPoint{{Latitude: 45.1, Longitude: -122.1}}},
	})

	assert.Empty(t, track.ID)
	assert.Equal(t, "Morning Ride", track.Name)
	assert.Equal(t, DefaultTrackColor, track.Color)
	assert.Equal(t, LineStyleSolid, track.Style)
	assert.True(t, track.Visible)
}

func TestTrack_PointCount(t *testing.T) {
	track := NewTrack("t", []TrackSegment{
		{Points: []TrackPoint{{}, {}, {}}},
		{Points: []TrackPoint{{}}},
	})

	assert.Equal(t, 4, track.PointCount())
	assert.False(t, track.IsEmpty())
	assert.True(t, NewTrack("empty", nil).IsEmpty())
}

func TestTrack_Validate(t *testing.T) {
	valid := NewTrack("t", nil)
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = ""
	assert.Error(t, noName.Validate())

	badColor := valid
	badColor.Color = "0000FF"
	assert.Error(t, badColor.Validate())
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeLight, ParseTheme("LIGHT"))
	assert.Equal(t, ThemeSystem, ParseTheme("bogus"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 12, cfg.DefaultZoom)
	assert.Equal(t, "osm", cfg.ActiveBaseMapID)
	assert.InDelta(t, 45.5152, cfg.InitialLat, 1e-9)
	assert.Equal(t, ThemeSystem, cfg.Theme)
	assert.False(t, cfg.OfflineMode)
}
