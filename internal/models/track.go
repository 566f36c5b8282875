package models

import (
	"fmt"
	"strings"
)

// DefaultTrackColor is the line color assigned to tracks that do not
// specify one ("#RRGGBB").
const DefaultTrackColor = "#0000FF"

// LineStyle describes how a track polyline is drawn.
type LineStyle string

const (
	LineStyleSolid  LineStyle = "SOLID"
	LineStyleDashed LineStyle = "DASHED"
	LineStyleDotted LineStyle = "DOTTED"
)

// ParseLineStyle converts a stored string into a LineStyle.
// Unknown values fall back to SOLID so that rows written by a newer
// schema never make a track unloadable.
func ParseLineStyle(s string) LineStyle {
	switch LineStyle(strings.ToUpper(s)) {
	case LineStyleSolid, LineStyleDashed, LineStyleDotted:
		return LineStyle(strings.ToUpper(s))
	default:
		return LineStyleSolid
	}
}

// String returns the stored representation of the style.
func (ls LineStyle) String() string {
	return string(ls)
}

// TrackPoint is a single recorded position. Points carry no identity of
// their own; their position in a segment's ordered sequence is their
// identity.
type TrackPoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation,omitempty"` // meters, nil when the source had none
	Time      *int64   `json:"time,omitempty"`      // epoch milliseconds, nil when the source had none
}

// TrackSegment is a contiguous run of points. Segment boundaries are
// meaningful (GPS signal gaps) and survive storage round-trips.
type TrackSegment struct {
	Points []TrackPoint `json:"points"`
}

// Track is a named, styled, ordered collection of segments.
// ID is empty until the track is first persisted; after that it is
// stable across style and visibility edits.
type Track struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Segments []TrackSegment `json:"segments"`
	Color    string         `json:"color"`
	Style    LineStyle      `json:"lineStyle"`
	Visible  bool           `json:"visible"`
}

// NewTrack builds an unsaved track with default styling.
func NewTrack(name string, segments []TrackSegment) Track {
	return Track{
		Name:     name,
		Segments: segments,
		Color:    DefaultTrackColor,
		Style:    LineStyleSolid,
		Visible:  true,
	}
}

// PointCount returns the number of points across all segments.
func (t Track) PointCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Points)
	}
	return n
}

// IsEmpty reports whether the track has no points at all.
func (t Track) IsEmpty() bool {
	return t.PointCount() == 0
}

// Validate checks the scalar fields of a track before persisting.
func (t Track) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("track name must not be empty")
	}
	if len(t.Color) != 7 || t.Color[0] != '#' {
		return fmt.Errorf("track color %q is not #RRGGBB", t.Color)
	}
	return nil
}
