package models

import "time"

// Fix is a resolved position assigned to a photo
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"` // meters, truncated toward zero
}

// Position is a plain lat/lon pair, e.g. one already present in a photo
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EncodedFix is a Fix as it would be written to the GPS sub-block
type EncodedFix struct {
	LatitudeRef  string    `json:"latitudeRef"`
	Latitude     [3]string `json:"latitude"` // degrees, minutes, seconds as num/den
	LongitudeRef string    `json:"longitudeRef"`
	Longitude    [3]string `json:"longitude"`
	AltitudeRef  int       `json:"altitudeRef"`
	Altitude     string    `json:"altitude"`
}

// FixResult is the outcome of resolving one capture time against the track
type FixResult struct {
	CaptureTime time.Time   `json:"captureTime"`
	MatchKind   string      `json:"matchKind"`
	Fix         *Fix        `json:"fix,omitempty"`
	SampleTime  *time.Time  `json:"sampleTime,omitempty"`
	CellToken   string      `json:"cellToken,omitempty"` // S2 cell of the fix
	Encoded     *EncodedFix `json:"encoded,omitempty"`
}
