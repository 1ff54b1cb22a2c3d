package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/jengzang/geotag-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// DistanceFromFix returns how far a resolved fix lies from a position the photo
// already carried. It is used for diagnostics only.
func DistanceFromFix(existing models.Position, fix models.Fix) float64 {
	return HaversineDistance(existing.Latitude, existing.Longitude, fix.Latitude, fix.Longitude)
}
