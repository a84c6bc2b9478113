package services

import (
	"math"
	"traffic-route-service/internal/domain"
)

const earthRadiusKm = 6371.0

// RouteEndpoints identifies a route by its two ends.
type RouteEndpoints struct {
	Source      domain.Coordinates
	Destination domain.Coordinates
}

// SameRoute reports whether two endpoint pairs describe the same route.
//
// Each of the four coordinate deltas is compared against tolerance on its own
// axis; no great-circle distance is computed. The relation is symmetric and
// reflexive but not transitive near the tolerance boundary. The tolerance is
// not scaled by latitude.
func SameRoute(a, b RouteEndpoints, toleranceDeg float64) bool {
	return math.Abs(a.Source.Lon-b.Source.Lon) < toleranceDeg &&
		math.Abs(a.Source.Lat-b.Source.Lat) < toleranceDeg &&
		math.Abs(a.Destination.Lon-b.Destination.Lon) < toleranceDeg &&
		math.Abs(a.Destination.Lat-b.Destination.Lat) < toleranceDeg
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PathDistanceKm sums haversine distances between consecutive points.
func PathDistanceKm(path []domain.Coordinates) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += HaversineKm(path[i-1], path[i])
	}
	return total
}
