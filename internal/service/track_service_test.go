package service

import (
	"context"
	"testing"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/database"
	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/repository"
)

func TestTrackService_Summary(t *testing.T) {
	svc := NewTrackService(testTrack(t), "walk.gpx")
	got := svc.Summary()
	if got.Source != "walk.gpx" || got.Samples != 3 || !got.Start.Equal(trackStart) {
		t.Errorf("summary = %+v", got)
	}
	if got.LengthMeters <= 0 || got.Bounds == nil || got.Bounds.MaxLatitude < got.Bounds.MinLatitude {
		t.Errorf("geometry = %v %+v", got.LengthMeters, got.Bounds)
	}
}

func TestTrackService_Resolve(t *testing.T) {
	svc := NewTrackService(testTrack(t), "walk.gpx")

	got, err := svc.Resolve(trackStart.Add(10 * time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if got.MatchKind != "matched" || got.Encoded == nil || got.CellToken == "" {
		t.Fatalf("result = %+v", got)
	}
	want := models.EncodedFix{
		LatitudeRef:  "N",
		Latitude:     [3]string{"25/1", "14/1", "609/25"},
		LongitudeRef: "W",
		Longitude:    [3]string{"122/1", "24/1", "846/25"},
		AltitudeRef:  1,
		Altitude:     "20/1",
	}
	if *got.Encoded != want {
		t.Errorf("encoded = %+v, want %+v", *got.Encoded, want)
	}

	got, err = svc.Resolve(trackStart)
	if err != nil {
		t.Fatal(err)
	}
	if got.MatchKind != "no_match" || got.Fix != nil || got.Encoded != nil {
		t.Errorf("result = %+v", got)
	}
}

func TestJournalService(t *testing.T) {
	ctx := context.Background()
	conn, err := database.Open(database.Config{Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	repo := repository.NewGeotagRepository(conn)
	for _, kind := range []string{"matched", "after_end", "no_match"} {
		if err := repo.Insert(ctx, &models.GeotagRecord{RunID: "r", PhotoPath: kind, CaptureTime: trackStart, MatchKind: kind}); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewJournalService(repo)
	page, err := svc.List(ctx, models.GeotagRecordFilter{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.TotalPages != 2 || page.Page != 1 || len(page.Data) != 2 {
		t.Errorf("page = %+v", page)
	}

	summary, err := svc.Summary(ctx, "r")
	if err != nil {
		t.Fatal(err)
	}
	want := models.BatchSummary{RunID: "r", Total: 3, Matched: 1, AfterEnd: 1, NoMatch: 1}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", *summary, want)
	}
}
