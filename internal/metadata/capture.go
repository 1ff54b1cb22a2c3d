package metadata

import (
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/coord"
	"github.com/jengzang/geotag-backend-go/internal/models"
)

// CaptureTimeLayout is the EXIF date format. It carries no zone.
const CaptureTimeLayout = "2006:01:02 15:04:05"

// ErrMissingCaptureTime is returned when a photo has no DateTimeOriginal.
var ErrMissingCaptureTime = errors.New("missing capture time")

// MissingCaptureTimeError ties ErrMissingCaptureTime to a file.
type MissingCaptureTimeError struct {
	File string
}

func (e *MissingCaptureTimeError) Error() string {
	return fmt.Sprintf("%s: %v (DateTimeOriginal)", e.File, ErrMissingCaptureTime)
}

func (e *MissingCaptureTimeError) Unwrap() error { return ErrMissingCaptureTime }

// CaptureTime returns DateTimeOriginal as a UTC wall-clock instant.
func (b *Block) CaptureTime() (time.Time, error) {
	e, ok := b.Field(IFDExif, TagDateTimeOriginal)
	if !ok {
		return time.Time{}, ErrMissingCaptureTime
	}
	raw := e.ASCII()
	if raw == "" {
		return time.Time{}, ErrMissingCaptureTime
	}
	t, err := time.Parse(CaptureTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid DateTimeOriginal %q: %w", raw, err)
	}
	return t, nil
}

// Position decodes a position already stored in the GPS sub-block.
func (b *Block) Position() (models.Position, bool) {
	lat, ok := b.coordinate(TagGPSLatitudeRef, TagGPSLatitude)
	if !ok {
		return models.Position{}, false
	}
	lon, ok := b.coordinate(TagGPSLongitudeRef, TagGPSLongitude)
	if !ok {
		return models.Position{}, false
	}
	return models.Position{Latitude: lat, Longitude: lon}, true
}

func (b *Block) coordinate(refTag, valueTag Tag) (float64, bool) {
	e, ok := b.Field(IFDGPS, valueTag)
	if !ok || e.Count != 3 {
		return 0, false
	}
	rs, err := e.Rationals(b.ByteOrder)
	if err != nil {
		return 0, false
	}
	ref := ""
	if r, ok := b.Field(IFDGPS, refTag); ok {
		ref = r.ASCII()
	}
	return coord.FromRationals(ref, [3]coord.Rational{rs[0], rs[1], rs[2]}), true
}
