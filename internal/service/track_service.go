package service

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/coord"
	"github.com/jengzang/geotag-backend-go/internal/correlate"
	"github.com/jengzang/geotag-backend-go/internal/metadata"
	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/spatial"
	"github.com/jengzang/geotag-backend-go/internal/track"
)

// TrackService answers read-only questions about the loaded track
type TrackService struct {
	track  *track.Track
	source string
}

// NewTrackService creates a new track service
func NewTrackService(t *track.Track, source string) *TrackService {
	return &TrackService{track: t, source: source}
}

// Summary describes the loaded track
func (s *TrackService) Summary() models.TrackSummary {
	samples := s.track.Samples()
	summary := s.track.Summary(s.source)
	summary.LengthMeters = spatial.PathLength(samples)
	summary.Bounds = spatial.BoundingBox(samples)
	return summary
}

// Resolve correlates a capture time and shows the GPS values that would be
// written for it
func (s *TrackService) Resolve(capture time.Time) (*models.FixResult, error) {
	res := correlate.Resolve(s.track, capture)
	out := &models.FixResult{
		CaptureTime: track.WallClock(capture),
		MatchKind:   res.Kind.String(),
	}
	if !res.Found() {
		return out, nil
	}

	fix := res.Fix()
	sampleTime := res.Sample.Time
	encoded, err := encodeFix(fix)
	if err != nil {
		return nil, err
	}
	out.Fix = &fix
	out.SampleTime = &sampleTime
	out.CellToken = spatial.CellToken(fix.Latitude, fix.Longitude, spatial.DefaultCellLevel)
	out.Encoded = encoded
	return out, nil
}

func encodeFix(fix models.Fix) (*models.EncodedFix, error) {
	order := binary.BigEndian
	enc := &models.EncodedFix{}

	for _, e := range metadata.GPSEntries(order, fix) {
		switch e.Tag {
		case metadata.TagGPSLatitudeRef:
			enc.LatitudeRef = e.ASCII()
		case metadata.TagGPSLongitudeRef:
			enc.LongitudeRef = e.ASCII()
		case metadata.TagGPSAltitudeRef:
			enc.AltitudeRef = int(e.Value[0])
		case metadata.TagGPSLatitude, metadata.TagGPSLongitude, metadata.TagGPSAltitude:
			rs, err := e.Rationals(order)
			if err != nil {
				return nil, fmt.Errorf("failed to read GPS tag %#04x: %w", uint16(e.Tag), err)
			}
			switch e.Tag {
			case metadata.TagGPSLatitude:
				enc.Latitude = rationalStrings(rs)
			case metadata.TagGPSLongitude:
				enc.Longitude = rationalStrings(rs)
			default:
				enc.Altitude = rs[0].String()
			}
		}
	}
	return enc, nil
}

func rationalStrings(rs []coord.Rational) [3]string {
	var out [3]string
	for i := 0; i < len(rs) && i < 3; i++ {
		out[i] = rs[i].String()
	}
	return out
}
