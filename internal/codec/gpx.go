package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cliftbar/mapviewer/internal/models"
)

// gpxNamespace is the GPX 1.1 default namespace. Decoding tolerates
// documents that omit it or qualify every element with a prefix.
const gpxNamespace = "http://www.topografix.com/GPX/1/1"

// gpxTimeLayout is the ISO-8601 UTC representation written on export.
const gpxTimeLayout = "2006-01-02T15:04:05Z"

// defaultGPXName names tracks whose <trk> carries no <name>.
const defaultGPXName = "Imported GPX"

// GPXCodec reads and writes GPX 1.1 track documents.
type GPXCodec struct{}

// Decode parses a GPX document into tracks, one per <trk> element in
// document order. It matches elements by local name only, so missing
// default namespaces and prefixed dialects (<p:gpx>) parse identically.
// Tracks with no points are dropped; unparsable <time> values become
// nil times rather than failing the point.
func (GPXCodec) Decode(content string) ([]models.Track, Diagnostic) {
	var diag Diagnostic

	dec := xml.NewDecoder(strings.NewReader(content))
	// Resolve undeclared namespace prefixes instead of erroring out;
	// element matching below is on Name.Local regardless.
	dec.Strict = false

	var (
		tracks  []models.Track
		inTrk   bool
		inTrkpt bool
		track   models.Track
		segment models.TrackSegment
		point   models.TrackPoint
		ptValid bool
		sawGPX  bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			diag.Err = fmt.Errorf("decode gpx: %w", err)
			return nil, diag
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "gpx":
				sawGPX = true
			case "trk":
				inTrk = true
				track = models.NewTrack(defaultGPXName, nil)
			case "trkseg":
				if inTrk {
					segment = models.TrackSegment{}
				}
			case "trkpt":
				if !inTrk {
					continue
				}
				inTrkpt = true
				point = models.TrackPoint{}
				ptValid = true
				var haveLat, haveLon bool
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "lat":
						if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
							point.Latitude = v
							haveLat = true
						}
					case "lon":
						if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
							point.Longitude = v
							haveLon = true
						}
					}
				}
				if !haveLat || !haveLon {
					ptValid = false
					diag.drop("trkpt without numeric lat/lon in track %q", track.Name)
				}
			case "name":
				if inTrk && !inTrkpt {
					var s string
					if err := dec.DecodeElement(&s, &el); err == nil && strings.TrimSpace(s) != "" {
						track.Name = strings.TrimSpace(s)
					}
				}
			case "ele":
				if inTrkpt {
					var s string
					if err := dec.DecodeElement(&s, &el); err == nil {
						if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
							point.Elevation = &v
						}
					}
				}
			case "time":
				if inTrkpt {
					var s string
					if err := dec.DecodeElement(&s, &el); err == nil {
						if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
							ms := ts.UnixMilli()
							point.Time = &ms
						}
						// Unparsable times stay nil; the point survives.
					}
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "trkpt":
				if inTrkpt {
					inTrkpt = false
					if ptValid {
						segment.Points = append(segment.Points, point)
					}
				}
			case "trkseg":
				if inTrk {
					if len(segment.Points) > 0 {
						track.Segments = append(track.Segments, segment)
					}
					segment = models.TrackSegment{}
				}
			case "trk":
				if inTrk {
					inTrk = false
					if track.IsEmpty() {
						diag.drop("track %q has no points", track.Name)
						continue
					}
					tracks = append(tracks, track)
				}
			}
		}
	}

	if !sawGPX {
		diag.Err = fmt.Errorf("decode gpx: no <gpx> root element")
		return nil, diag
	}
	return tracks, diag
}

// Encode writes a GPX 1.1 document with the standard namespace: one
// <trk>, one <trkseg> per segment, optional <ele>/<time> per point.
func (GPXCodec) Encode(track models.Track) string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString(`<gpx version="1.1" creator="MapViewer" xmlns="` + gpxNamespace + "\">\n")
	sb.WriteString("  <trk>\n")
	sb.WriteString("    <name>" + xmlEscape(track.Name) + "</name>\n")
	for _, seg := range track.Segments {
		sb.WriteString("    <trkseg>\n")
		for _, p := range seg.Points {
			fmt.Fprintf(&sb, "      <trkpt lat=%q lon=%q>\n", formatCoord(p.Latitude), formatCoord(p.Longitude))
			if p.Elevation != nil {
				fmt.Fprintf(&sb, "        <ele>%s</ele>\n", formatCoord(*p.Elevation))
			}
			if p.Time != nil {
				fmt.Fprintf(&sb, "        <time>%s</time>\n", time.UnixMilli(*p.Time).UTC().Format(gpxTimeLayout))
			}
			sb.WriteString("      </trkpt>\n")
		}
		sb.WriteString("    </trkseg>\n")
	}
	sb.WriteString("  </trk>\n")
	sb.WriteString("</gpx>")
	return sb.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
