package services

import (
	"math"
	"testing"
	"traffic-route-service/internal/domain"
)

func TestSameRoute(t *testing.T) {
	base := RouteEndpoints{
		Source:      domain.Coordinates{Lon: 0, Lat: 0},
		Destination: domain.Coordinates{Lon: 1, Lat: 1},
	}

	tests := []struct {
		name  string
		other RouteEndpoints
		want  bool
	}{
		{"identical", base, true},
		{"within tolerance", RouteEndpoints{
			Source:      domain.Coordinates{Lon: 0.0001, Lat: 0.0001},
			Destination: domain.Coordinates{Lon: 1.0009, Lat: 0.9991},
		}, true},
		{"source lon off", RouteEndpoints{
			Source:      domain.Coordinates{Lon: 0.002, Lat: 0},
			Destination: base.Destination,
		}, false},
		{"destination lat off", RouteEndpoints{
			Source:      base.Source,
			Destination: domain.Coordinates{Lon: 1, Lat: 1.0015},
		}, false},
		{"reversed", RouteEndpoints{Source: base.Destination, Destination: base.Source}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameRoute(base, tt.other, 0.001); got != tt.want {
				t.Fatalf("SameRoute = %v, want %v", got, tt.want)
			}
			if got := SameRoute(tt.other, base, 0.001); got != tt.want {
				t.Fatalf("SameRoute is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestSameRouteIsNotTransitive(t *testing.T) {
	a := RouteEndpoints{Source: domain.Coordinates{Lon: 0}, Destination: domain.Coordinates{Lon: 1}}
	b := RouteEndpoints{Source: domain.Coordinates{Lon: 0.0006}, Destination: domain.Coordinates{Lon: 1}}
	c := RouteEndpoints{Source: domain.Coordinates{Lon: 0.0012}, Destination: domain.Coordinates{Lon: 1}}

	if !SameRoute(a, b, 0.001) || !SameRoute(b, c, 0.001) {
		t.Fatal("neighbours should match")
	}
	if SameRoute(a, c, 0.001) {
		t.Fatal("a and c are further apart than the tolerance")
	}
}

func TestHaversineKm(t *testing.T) {
	// One degree of latitude is ~111.19 km.
	d := HaversineKm(domain.Coordinates{Lon: 0, Lat: 0}, domain.Coordinates{Lon: 0, Lat: 1})
	if math.Abs(d-111.195) > 0.01 {
		t.Fatalf("distance = %.3f, want ~111.195", d)
	}

	if HaversineKm(domain.Coordinates{Lon: 5, Lat: 5}, domain.Coordinates{Lon: 5, Lat: 5}) != 0 {
		t.Fatal("distance to self should be zero")
	}
}

func TestPathDistanceKmSumsLegs(t *testing.T) {
	path := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}, {Lon: 0, Lat: 2}}
	want := HaversineKm(path[0], path[1]) + HaversineKm(path[1], path[2])
	if got := PathDistanceKm(path); math.Abs(got-want) > 1e-9 {
		t.Fatalf("PathDistanceKm = %v, want %v", got, want)
	}
	if PathDistanceKm(path[:1]) != 0 {
		t.Fatal("single point path should have zero distance")
	}
}
