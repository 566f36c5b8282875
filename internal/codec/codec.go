// Package codec converts between track interchange formats (GPX,
// GeoJSON) and the in-memory track model.
//
// Decoding never fails outward: malformed input produces an empty track
// slice plus a Diagnostic describing what was rejected. Callers at the
// API boundary collapse the diagnostic to the empty result; tests and
// logs can still inspect it.
package codec

import (
	"fmt"
	"strings"

	"github.com/cliftbar/mapviewer/internal/models"
)

// Format identifies a supported track interchange format.
type Format string

const (
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = fmt.Errorf("unknown track format")

// ParseFormat matches a user-supplied format name case-insensitively
// against the supported formats.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatGPX:
		return FormatGPX, nil
	case FormatGeoJSON:
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// String returns the canonical lowercase name of the format.
func (f Format) String() string {
	return string(f)
}

// Diagnostic records everything a decode suppressed. Err is the
// document-level failure that emptied the result, if any; Dropped lists
// per-item data that was discarded while the rest of the document
// parsed fine.
type Diagnostic struct {
	Err     error
	Dropped []string
}

// OK reports whether the decode was fully clean.
func (d Diagnostic) OK() bool {
	return d.Err == nil && len(d.Dropped) == 0
}

func (d *Diagnostic) drop(format string, args ...any) {
	d.Dropped = append(d.Dropped, fmt.Sprintf(format, args...))
}

// Codec is a bidirectional transform between raw text and tracks.
type Codec interface {
	// Decode parses a full document. The returned slice is empty (never
	// an error to the caller) on any parse failure; partial successes
	// keep every track that parsed structurally.
	Decode(content string) ([]models.Track, Diagnostic)

	// Encode serializes one track. It succeeds for any well-formed
	// Track value.
	Encode(track models.Track) string
}

// ForFormat returns the codec implementing the given format.
func ForFormat(f Format) Codec {
	switch f {
	case FormatGeoJSON:
		return GeoJSONCodec{}
	default:
		return GPXCodec{}
	}
}
