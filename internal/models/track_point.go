package models

import "time"

// RawPoint is one point as read from a track log, before the time offset is applied
// and before zero-delta points are dropped.
type RawPoint struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation"`
}

// Sample represents a GPS track sample with second-resolution time
type Sample struct {
	Time      time.Time `json:"time" db:"sample_time"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Elevation float64   `json:"elevation" db:"elevation"` // meters
}

// TrackSummary describes a loaded track
type TrackSummary struct {
	Source  string    `json:"source"`
	Samples int       `json:"samples"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Offset  int64     `json:"offsetSeconds"`

	LengthMeters float64 `json:"lengthMeters"`
	Bounds       *Bounds `json:"bounds,omitempty"`
}

// Bounds is a lat/lon bounding box
type Bounds struct {
	MinLatitude  float64 `json:"minLatitude"`
	MinLongitude float64 `json:"minLongitude"`
	MaxLatitude  float64 `json:"maxLatitude"`
	MaxLongitude float64 `json:"maxLongitude"`
}
