// Package track builds the immutable, time-ordered sample sequence that photos
// are correlated against.
package track

import (
	"errors"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/models"
)

var (
	// ErrEmptyTrack is returned when no sample survives construction.
	ErrEmptyTrack = errors.New("track has no samples")
	// ErrTrackParse wraps any failure to read or parse a track log.
	ErrTrackParse = errors.New("failed to parse track log")
)

// Track is an ordered sequence of samples with strictly increasing,
// second-resolution timestamps. It is never modified after Build.
type Track struct {
	samples []models.Sample
	offset  time.Duration
}

// Build shifts every raw point by offset (whole seconds) and keeps the points
// in order. A point whose time equals the previous raw point's time is dropped,
// as is any point that would not be strictly later than the last kept sample
// once reduced to second resolution.
func Build(points []models.RawPoint, offset time.Duration) (*Track, error) {
	offset = offset.Truncate(time.Second)

	samples := make([]models.Sample, 0, len(points))
	var prev time.Time
	for i, p := range points {
		if i > 0 && p.Time.Equal(prev) {
			continue
		}
		prev = p.Time

		ts := WallClock(p.Time.Add(offset))
		if n := len(samples); n > 0 && !ts.After(samples[n-1].Time) {
			continue
		}
		samples = append(samples, models.Sample{
			Time:      ts,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Elevation: p.Elevation,
		})
	}

	if len(samples) == 0 {
		return nil, ErrEmptyTrack
	}
	return &Track{samples: samples, offset: offset}, nil
}

// WallClock drops sub-second precision and the zone, keeping the wall-clock
// reading. Photo capture times carry no zone, so both sides are compared this way.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.samples) }

// At returns the i-th sample.
func (t *Track) At(i int) models.Sample { return t.samples[i] }

// First returns the earliest sample.
func (t *Track) First() models.Sample { return t.samples[0] }

// Last returns the latest sample.
func (t *Track) Last() models.Sample { return t.samples[len(t.samples)-1] }

// Span returns the time between the first and last sample.
func (t *Track) Span() time.Duration { return t.Last().Time.Sub(t.First().Time) }

// Offset returns the time shift applied at construction.
func (t *Track) Offset() time.Duration { return t.offset }

// Samples returns a copy of the samples.
func (t *Track) Samples() []models.Sample {
	out := make([]models.Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Summary describes the track for logging and the API.
func (t *Track) Summary(source string) models.TrackSummary {
	return models.TrackSummary{
		Source:  source,
		Samples: len(t.samples),
		Start:   t.First().Time,
		End:     t.Last().Time,
		Offset:  int64(t.offset / time.Second),
	}
}
