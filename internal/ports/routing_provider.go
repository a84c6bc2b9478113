package ports

import (
	"context"
	"traffic-route-service/internal/domain"
)

// Routing profile requested from the provider.
type RouteProfile string

const (
	// Single traffic-aware route.
	ProfileFastest RouteProfile = "fastest"
	// Primary route plus alternatives.
	ProfileAlternatives RouteProfile = "alternatives"
)

type RouteRequest struct {
	Source      domain.Coordinates
	Destination domain.Coordinates
	Profile     RouteProfile
}

// One polyline returned by the provider.
type RoutePath struct {
	Coordinates []domain.Coordinates
}

type RouteResponse struct {
	Routes []RoutePath
}

// Contract for retrieving road geometry between two points.
type RoutingProvider interface {
	// Return one or more polylines from source to destination.
	Directions(ctx context.Context, req RouteRequest) (RouteResponse, error)
}
