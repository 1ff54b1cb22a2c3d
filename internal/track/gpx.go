package track

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/jengzang/geotag-backend-go/internal/models"
)

// LoadGPX reads a GPX file and builds a Track shifted by offset.
func LoadGPX(path string, offset time.Duration) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrackParse, err)
	}
	return parseGPX(data, offset)
}

// ParseGPX parses GPX content and builds a Track shifted by offset.
func ParseGPX(r io.Reader, offset time.Duration) (*Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrackParse, err)
	}
	return parseGPX(data, offset)
}

func parseGPX(data []byte, offset time.Duration) (*Track, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrackParse, err)
	}
	var times pointTimes
	if err := xml.Unmarshal(data, &times); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrackParse, err)
	}
	points, err := flatten(g, times)
	if err != nil {
		return nil, err
	}
	return Build(points, offset)
}

// pointTimes mirrors the trk/trkseg/trkpt nesting and keeps each point's
// <time> text as written. gpxgo only understands UTC and zoneless times and
// leaves any other zone offset as a zero Timestamp.
type pointTimes struct {
	Tracks []struct {
		Segments []struct {
			Points []struct {
				Time string `xml:"time"`
			} `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

func (pt pointTimes) raw(trk, seg, pnt int) string {
	if trk >= len(pt.Tracks) || seg >= len(pt.Tracks[trk].Segments) || pnt >= len(pt.Tracks[trk].Segments[seg].Points) {
		return ""
	}
	return strings.TrimSpace(pt.Tracks[trk].Segments[seg].Points[pnt].Time)
}

// flatten walks tracks and segments in file order. Points with no <time> are
// skipped; a <time> that cannot be read fails the whole track. Times are
// normalized to UTC.
func flatten(g *gpx.GPX, times pointTimes) ([]models.RawPoint, error) {
	var points []models.RawPoint
	for ti, trk := range g.Tracks {
		for si, seg := range trk.Segments {
			for pi, p := range seg.Points {
				ts := p.Timestamp
				if ts.IsZero() {
					raw := times.raw(ti, si, pi)
					if raw == "" {
						continue
					}
					parsed, err := time.Parse(time.RFC3339Nano, raw)
					if err != nil {
						return nil, fmt.Errorf("%w: point %d of segment %d: invalid time %q", ErrTrackParse, pi+1, si+1, raw)
					}
					ts = parsed
				}

				ele := 0.0
				if p.Elevation.NotNull() {
					ele = p.Elevation.Value()
				}
				points = append(points, models.RawPoint{
					Time:      ts.UTC(),
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
					Elevation: ele,
				})
			}
		}
	}
	return points, nil
}
