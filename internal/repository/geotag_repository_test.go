package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/database"
	"github.com/jengzang/geotag-backend-go/internal/models"
)

func newTestRepo(t *testing.T) *GeotagRepository {
	t.Helper()
	conn, err := database.Open(database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewGeotagRepository(conn)
}

func TestGeotagRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	capture := time.Date(2024, 5, 1, 10, 0, 30, 0, time.UTC)
	sample := capture.Add(30 * time.Second)
	distance := 12.5

	matched := &models.GeotagRecord{
		RunID:       "run-1",
		PhotoPath:   "/photos/a.jpg",
		CaptureTime: capture,
		MatchKind:   "matched",
		Written:     true,
		Fix:         &models.Fix{Latitude: 25.2301, Longitude: -122.4194, Elevation: 12},
		SampleTime:  &sample,
	}
	skipped := &models.GeotagRecord{
		RunID:       "run-1",
		PhotoPath:   "/photos/b.jpg",
		CaptureTime: capture,
		MatchKind:   "no_match",
	}
	after := &models.GeotagRecord{
		RunID:                "run-2",
		PhotoPath:            "/photos/c.jpg",
		CaptureTime:          capture,
		MatchKind:            "after_end",
		Written:              true,
		DryRun:               true,
		Fix:                  &models.Fix{Latitude: 1, Longitude: 2},
		SampleTime:           &sample,
		DistanceFromExisting: &distance,
	}

	for _, rec := range []*models.GeotagRecord{matched, skipped, after} {
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if rec.ID == 0 {
			t.Error("Insert did not assign an ID")
		}
	}

	got, total, err := repo.List(ctx, models.GeotagRecordFilter{RunID: "run-1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("run-1 rows: total=%d len=%d, want 2", total, len(got))
	}
	if got[0].PhotoPath != "/photos/a.jpg" || got[0].Fix == nil || got[0].Fix.Latitude != 25.2301 {
		t.Errorf("first row = %+v", got[0])
	}
	if !got[0].CaptureTime.Equal(capture) {
		t.Errorf("capture time = %v, want %v", got[0].CaptureTime, capture)
	}
	if got[0].SampleTime == nil || !got[0].SampleTime.Equal(sample) {
		t.Errorf("sample time = %v, want %v", got[0].SampleTime, sample)
	}
	if got[1].Fix != nil || got[1].SampleTime != nil {
		t.Errorf("no_match row should carry no fix: %+v", got[1])
	}
	if got[0].CreatedAt == nil {
		t.Error("created_at not populated")
	}

	got, _, err = repo.List(ctx, models.GeotagRecordFilter{MatchKind: "after_end"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].DistanceFromExisting == nil || *got[0].DistanceFromExisting != distance || !got[0].DryRun {
		t.Errorf("after_end rows = %+v", got)
	}
}

func TestGeotagRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		rec := &models.GeotagRecord{RunID: "run", PhotoPath: "p", CaptureTime: time.Unix(int64(i), 0).UTC(), MatchKind: "no_match"}
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	got, total, err := repo.List(ctx, models.GeotagRecordFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(got) != 2 || got[0].ID != 3 {
		t.Errorf("page 2 = %+v", got)
	}
}

func TestGeotagRepository_CountByKind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	kinds := []string{"matched", "matched", "before_start", "no_match"}
	for _, k := range kinds {
		if err := repo.Insert(ctx, &models.GeotagRecord{RunID: "r", PhotoPath: "p", CaptureTime: time.Unix(0, 0).UTC(), MatchKind: k}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Insert(ctx, &models.GeotagRecord{RunID: "other", PhotoPath: "p", CaptureTime: time.Unix(0, 0).UTC(), MatchKind: "matched"}); err != nil {
		t.Fatal(err)
	}

	counts, err := repo.CountByKind(ctx, "r")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"matched": 2, "before_start": 1, "no_match": 1}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("counts[%s] = %d, want %d", k, counts[k], v)
		}
	}
}
