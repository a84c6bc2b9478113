package services

import (
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/ports"
)

// fixedRandom always returns the same value.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func loc(name string, lon, lat float64) domain.Location {
	return domain.Location{Name: name, Coordinates: domain.Coordinates{Lon: lon, Lat: lat}}
}

// linePath returns n evenly spaced points on a straight line.
func linePath(n int, from, to domain.Coordinates) []domain.Coordinates {
	out := make([]domain.Coordinates, n)
	for i := range n {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = domain.Coordinates{
			Lon: from.Lon + t*(to.Lon-from.Lon),
			Lat: from.Lat + t*(to.Lat-from.Lat),
		}
	}
	return out
}

func newTestScorer(provider ports.RoutingProvider, rnd Random) *RouteScorer {
	congestion := NewCongestionModel(DefaultCongestionConfig(), rnd)
	segmenter := NewSegmenter(DefaultSegmentConfig(), congestion)
	return NewRouteScorer(provider, segmenter, rnd, DefaultScoreConfig())
}
