// Package correlate matches a photo's capture time to a track sample.
package correlate

import (
	"time"

	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/track"
)

// MatchKind is the outcome of resolving a capture time against a track.
type MatchKind int

const (
	NoMatch MatchKind = iota
	BeforeStart
	AfterEnd
	Matched
)

func (k MatchKind) String() string {
	switch k {
	case BeforeStart:
		return "before_start"
	case AfterEnd:
		return "after_end"
	case Matched:
		return "matched"
	default:
		return "no_match"
	}
}

// Boundary reports whether the fix was extrapolated from the first or last sample.
func (k MatchKind) Boundary() bool {
	return k == BeforeStart || k == AfterEnd
}

// Result is the sample chosen for a capture time. Sample is the zero value
// when Kind is NoMatch.
type Result struct {
	Kind   MatchKind
	Sample models.Sample
}

// Found reports whether a position should be written.
func (r Result) Found() bool { return r.Kind != NoMatch }

// Fix converts the chosen sample into a Fix, truncating elevation toward zero.
func (r Result) Fix() models.Fix {
	return models.Fix{
		Latitude:  r.Sample.Latitude,
		Longitude: r.Sample.Longitude,
		Elevation: float64(int64(r.Sample.Elevation)),
	}
}

// Resolve picks the sample for capture. Capture times outside the track span
// fall back to the first or last sample. Inside the span, each consecutive pair
// (prev, next) more than one second apart claims the interval (prev, next] and
// resolves to next; the position is not interpolated. Pairs exactly one second
// apart claim nothing, so a capture time equal to such a next sample, or equal
// to the first sample, is NoMatch.
func Resolve(t *track.Track, capture time.Time) Result {
	capture = track.WallClock(capture)

	if capture.Before(t.First().Time) {
		return Result{Kind: BeforeStart, Sample: t.First()}
	}
	if capture.After(t.Last().Time) {
		return Result{Kind: AfterEnd, Sample: t.Last()}
	}

	for i := 1; i < t.Len(); i++ {
		prev, next := t.At(i-1), t.At(i)
		gap := next.Time.Sub(prev.Time)
		if gap <= time.Second {
			continue
		}
		if capture.After(prev.Time) && !capture.After(next.Time) {
			return Result{Kind: Matched, Sample: next}
		}
	}
	return Result{Kind: NoMatch}
}
