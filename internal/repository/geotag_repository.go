package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/models"
)

// journalTimeLayout stores wall-clock times as sortable text
const journalTimeLayout = "2006-01-02 15:04:05"

// GeotagRepository handles the run journal
type GeotagRepository struct {
	db *sql.DB
}

// NewGeotagRepository creates a new geotag repository
func NewGeotagRepository(db *sql.DB) *GeotagRepository {
	return &GeotagRepository{db: db}
}

// Insert appends one journal row and sets its ID
func (r *GeotagRepository) Insert(ctx context.Context, rec *models.GeotagRecord) error {
	var lat, lon, ele sql.NullFloat64
	if rec.Fix != nil {
		lat = sql.NullFloat64{Float64: rec.Fix.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: rec.Fix.Longitude, Valid: true}
		ele = sql.NullFloat64{Float64: rec.Fix.Elevation, Valid: true}
	}

	var sampleTime sql.NullString
	if rec.SampleTime != nil {
		sampleTime = sql.NullString{String: rec.SampleTime.Format(journalTimeLayout), Valid: true}
	}

	var distance sql.NullFloat64
	if rec.DistanceFromExisting != nil {
		distance = sql.NullFloat64{Float64: *rec.DistanceFromExisting, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO geotag_records
		(run_id, photo_path, capture_time, match_kind, written, dry_run,
		latitude, longitude, elevation, sample_time, distance_from_existing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.PhotoPath, rec.CaptureTime.Format(journalTimeLayout), rec.MatchKind,
		rec.Written, rec.DryRun, lat, lon, ele, sampleTime, distance,
	)
	if err != nil {
		return fmt.Errorf("failed to insert geotag record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read geotag record id: %w", err)
	}
	rec.ID = id
	return nil
}

// List retrieves journal rows with filtering and pagination
func (r *GeotagRepository) List(ctx context.Context, filter models.GeotagRecordFilter) ([]models.GeotagRecord, int64, error) {
	query := `SELECT id, run_id, photo_path, capture_time, match_kind, written, dry_run,
		latitude, longitude, elevation, sample_time, distance_from_existing, created_at
		FROM geotag_records`

	var conditions []string
	var args []interface{}

	if filter.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.MatchKind != "" {
		conditions = append(conditions, "match_kind = ?")
		args = append(args, filter.MatchKind)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM geotag_records"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count geotag records: %w", err)
	}

	filter = normalizePage(filter)
	offset := (filter.Page - 1) * filter.PageSize
	query += where + " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query geotag records: %w", err)
	}
	defer rows.Close()

	records := []models.GeotagRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate geotag records: %w", err)
	}

	return records, total, nil
}

// CountByKind returns the number of rows per match kind for a run
func (r *GeotagRepository) CountByKind(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT match_kind, COUNT(*) FROM geotag_records WHERE run_id = ? GROUP BY match_kind", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count geotag records by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan kind count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

func normalizePage(filter models.GeotagRecordFilter) models.GeotagRecordFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	return filter
}

func scanRecord(rows *sql.Rows) (models.GeotagRecord, error) {
	var rec models.GeotagRecord
	var capture string
	var lat, lon, ele, distance sql.NullFloat64
	var sampleTime, createdAt sql.NullString

	err := rows.Scan(
		&rec.ID, &rec.RunID, &rec.PhotoPath, &capture, &rec.MatchKind, &rec.Written, &rec.DryRun,
		&lat, &lon, &ele, &sampleTime, &distance, &createdAt,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan geotag record: %w", err)
	}

	rec.CaptureTime, err = time.Parse(journalTimeLayout, capture)
	if err != nil {
		return rec, fmt.Errorf("invalid capture time %q: %w", capture, err)
	}
	if lat.Valid && lon.Valid {
		rec.Fix = &models.Fix{Latitude: lat.Float64, Longitude: lon.Float64, Elevation: ele.Float64}
	}
	if sampleTime.Valid {
		st, err := time.Parse(journalTimeLayout, sampleTime.String)
		if err != nil {
			return rec, fmt.Errorf("invalid sample time %q: %w", sampleTime.String, err)
		}
		rec.SampleTime = &st
	}
	if distance.Valid {
		d := distance.Float64
		rec.DistanceFromExisting = &d
	}
	if createdAt.Valid {
		s := createdAt.String
		rec.CreatedAt = &s
	}
	return rec, nil
}
