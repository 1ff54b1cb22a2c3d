package models

import "time"

// GeotagRecord is one journal row describing what happened to a photo
type GeotagRecord struct {
	ID          int64      `json:"id" db:"id"`
	RunID       string     `json:"runId" db:"run_id"`
	PhotoPath   string     `json:"photoPath" db:"photo_path"`
	CaptureTime time.Time  `json:"captureTime" db:"capture_time"`
	MatchKind   string     `json:"matchKind" db:"match_kind"` // matched, before_start, after_end, no_match
	Written     bool       `json:"written" db:"written"`
	DryRun      bool       `json:"dryRun" db:"dry_run"`
	Fix         *Fix       `json:"fix,omitempty"`
	SampleTime  *time.Time `json:"sampleTime,omitempty" db:"sample_time"`

	// Distance in meters between a boundary fix and a position the photo already carried.
	DistanceFromExisting *float64 `json:"distanceFromExisting,omitempty" db:"distance_from_existing"`

	CreatedAt *string `json:"createdAt,omitempty" db:"created_at"`
}

// GeotagRecordFilter represents filter parameters for querying journal rows
type GeotagRecordFilter struct {
	RunID     string `form:"runId"`
	MatchKind string `form:"matchKind"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// GeotagRecordsResponse represents a paginated response of journal rows
type GeotagRecordsResponse struct {
	Data       []GeotagRecord `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// BatchSummary counts outcomes of one geotagging run
type BatchSummary struct {
	RunID       string `json:"runId"`
	Total       int    `json:"total"`
	Matched     int    `json:"matched"`
	BeforeStart int    `json:"beforeStart"`
	AfterEnd    int    `json:"afterEnd"`
	NoMatch     int    `json:"noMatch"`
	Failed      int    `json:"failed"`
}
