package routing

import (
	"context"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/ports"
)

// StraightLineProvider returns an interpolated straight line between the
// endpoints. It stands in for a real provider when no API key is configured.
type StraightLineProvider struct {
	// Number of points per returned path, including both endpoints.
	Points int
}

func NewStraightLineProvider(points int) *StraightLineProvider {
	if points < 2 {
		points = 2
	}
	return &StraightLineProvider{Points: points}
}

func (p *StraightLineProvider) Directions(ctx context.Context, req ports.RouteRequest) (ports.RouteResponse, error) {
	if err := ctx.Err(); err != nil {
		return ports.RouteResponse{}, err
	}

	n := p.Points
	if n < 2 {
		n = 2
	}

	path := make([]domain.Coordinates, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		path[i] = domain.Coordinates{
			Lon: req.Source.Lon + t*(req.Destination.Lon-req.Source.Lon),
			Lat: req.Source.Lat + t*(req.Destination.Lat-req.Source.Lat),
		}
	}

	return ports.RouteResponse{Routes: []ports.RoutePath{{Coordinates: path}}}, nil
}
