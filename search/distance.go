// Package search implements proximity-based medicine availability search:
// great-circle distance, name matching, ranking and the orchestration over a
// store catalog.
package search

import (
	"math"

	"github.com/beinghadibadami/medinexus-connect/entities"
)

// EarthRadiusMeters is the mean Earth radius used by Distance
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in meters between a and b,
// computed with the haversine formula. Identical points yield exactly 0.
func Distance(a, b entities.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude) - toRadians(a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h slightly past 1 for antipodal points
	if h > 1 {
		h = 1
	}

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
