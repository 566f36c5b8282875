package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cliftbar/mapviewer/internal/models"
)

// defaultGeoJSONName names tracks whose feature has no properties.name.
const defaultGeoJSONName = "Imported GeoJSON"

// GeoJSONCodec reads and writes the RFC 7946 subset used for tracks:
// FeatureCollections of LineString and MultiLineString features.
type GeoJSONCodec struct{}

type geoJSONDoc struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string         `json:"type"`
	Geometry   *geoJSONGeom   `json:"geometry"`
	Properties map[string]any `json:"properties,omitempty"`
}

type geoJSONGeom struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Decode parses a FeatureCollection. LineString features become
// single-segment tracks, MultiLineString features one segment per
// sub-array; every other geometry type is ignored. A feature whose
// coordinates fail to parse is dropped, not the whole document.
func (GeoJSONCodec) Decode(content string) ([]models.Track, Diagnostic) {
	var diag Diagnostic

	var doc geoJSONDoc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		diag.Err = fmt.Errorf("decode geojson: %w", err)
		return nil, diag
	}
	if !strings.EqualFold(doc.Type, "FeatureCollection") {
		diag.Err = fmt.Errorf("decode geojson: root type %q is not a FeatureCollection", doc.Type)
		return nil, diag
	}

	var tracks []models.Track
	for i, feat := range doc.Features {
		if feat.Geometry == nil {
			continue
		}

		var segments []models.TrackSegment
		switch feat.Geometry.Type {
		case "LineString":
			seg, err := decodeLineString(feat.Geometry.Coordinates)
			if err != nil {
				diag.drop("feature %d: %v", i, err)
				continue
			}
			segments = []models.TrackSegment{seg}
		case "MultiLineString":
			var lines []json.RawMessage
			if err := json.Unmarshal(feat.Geometry.Coordinates, &lines); err != nil {
				diag.drop("feature %d: bad MultiLineString coordinates: %v", i, err)
				continue
			}
			ok := true
			for _, line := range lines {
				seg, err := decodeLineString(line)
				if err != nil {
					diag.drop("feature %d: %v", i, err)
					ok = false
					break
				}
				segments = append(segments, seg)
			}
			if !ok {
				continue
			}
		default:
			// Points, polygons etc. are not tracks.
			continue
		}

		name := defaultGeoJSONName
		if v, ok := feat.Properties["name"].(string); ok && v != "" {
			name = v
		}
		track := models.NewTrack(name, segments)
		if track.IsEmpty() {
			diag.drop("feature %d (%q) has no points", i, name)
			continue
		}
		tracks = append(tracks, track)
	}

	return tracks, diag
}

// decodeLineString converts one coordinate array into a segment.
// Coordinates are [lon, lat] or [lon, lat, ele].
func decodeLineString(raw json.RawMessage) (models.TrackSegment, error) {
	var coords [][]float64
	if err := json.Unmarshal(raw, &coords); err != nil {
		return models.TrackSegment{}, fmt.Errorf("bad LineString coordinates: %w", err)
	}

	seg := models.TrackSegment{Points: make([]models.TrackPoint, 0, len(coords))}
	for _, c := range coords {
		if len(c) < 2 {
			return models.TrackSegment{}, fmt.Errorf("coordinate with %d elements", len(c))
		}
		p := models.TrackPoint{Longitude: c[0], Latitude: c[1]}
		if len(c) > 2 {
			ele := c[2]
			p.Elevation = &ele
		}
		seg.Points = append(seg.Points, p)
	}
	return seg, nil
}

// Encode writes one Feature wrapped in a FeatureCollection.
// Single-segment tracks become a LineString, multi-segment tracks a
// MultiLineString; elevation is emitted as a third coordinate element
// only when present.
func (GeoJSONCodec) Encode(track models.Track) string {
	geomType := "LineString"
	var coordinates any
	if len(track.Segments) == 1 {
		coordinates = encodeLine(track.Segments[0])
	} else {
		geomType = "MultiLineString"
		lines := make([][][]float64, 0, len(track.Segments))
		for _, seg := range track.Segments {
			lines = append(lines, encodeLine(seg))
		}
		coordinates = lines
	}

	doc := map[string]any{
		"type": "FeatureCollection",
		"features": []any{
			map[string]any{
				"type": "Feature",
				"geometry": map[string]any{
					"type":        geomType,
					"coordinates": coordinates,
				},
				"properties": map[string]any{
					"name": track.Name,
				},
			},
		},
	}

	// Marshalling maps of plain floats and strings cannot fail.
	out, _ := json.Marshal(doc)
	return string(out)
}

func encodeLine(seg models.TrackSegment) [][]float64 {
	line := make([][]float64, 0, len(seg.Points))
	for _, p := range seg.Points {
		c := []float64{p.Longitude, p.Latitude}
		if p.Elevation != nil {
			c = append(c, *p.Elevation)
		}
		line = append(line, c)
	}
	return line
}
