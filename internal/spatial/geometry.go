package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/jengzang/geotag-backend-go/internal/models"
)

// DefaultCellLevel gives cells roughly 150 m across.
const DefaultCellLevel = 16

// PathLength calculates the total length of a track in meters
func PathLength(samples []models.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}

	var total s1.Angle
	prev := s2.LatLngFromDegrees(samples[0].Latitude, samples[0].Longitude)
	for _, s := range samples[1:] {
		cur := s2.LatLngFromDegrees(s.Latitude, s.Longitude)
		total += prev.Distance(cur)
		prev = cur
	}
	return total.Radians() * EarthRadiusMeters
}

// BoundingBox returns the lat/lon rectangle covering all samples, nil for none
func BoundingBox(samples []models.Sample) *models.Bounds {
	if len(samples) == 0 {
		return nil
	}

	rect := s2.EmptyRect()
	for _, s := range samples {
		rect = rect.AddPoint(s2.LatLngFromDegrees(s.Latitude, s.Longitude))
	}
	return &models.Bounds{
		MinLatitude:  rect.Lo().Lat.Degrees(),
		MinLongitude: rect.Lo().Lng.Degrees(),
		MaxLatitude:  rect.Hi().Lat.Degrees(),
		MaxLongitude: rect.Hi().Lng.Degrees(),
	}
}

// CellToken returns the token of the S2 cell at level containing the point
func CellToken(lat, lon float64, level int) string {
	if level < 0 {
		level = 0
	}
	if level > s2.MaxLevel {
		level = s2.MaxLevel
	}
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(level).ToToken()
}
