package domain

import "fmt"

// Variant selects the scoring profile applied to a source/destination pair.
type Variant string

const (
	VariantFastest       Variant = "fastest"
	VariantFuelEfficient Variant = "fuel-efficient"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantFastest, VariantFuelEfficient:
		return Variant(s), nil
	}
	return "", fmt.Errorf("parse variant %q: %w", s, ErrUnknownVariant)
}

// Display name used for the route produced under this variant.
func (v Variant) RouteName() string {
	if v == VariantFuelEfficient {
		return "Fuel Efficient Route"
	}
	return "Fastest Route"
}

// Represents one contiguous stretch of a route with its own congestion.
// Segments are produced by the segmenter and never mutated afterwards.
type RouteSegment struct {
	Coordinates     []Coordinates `json:"coordinates"`
	CongestionLevel float64       `json:"congestion_level"`
	DistanceKm      float64       `json:"distance_km"`
	DurationMin     float64       `json:"duration_min"`
}

// Represents a scored route for one variant at one departure hour.
// Totals are derived from the segments; a new Route is built whenever the
// hour or variant changes.
type Route struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Variant          Variant        `json:"variant"`
	Segments         []RouteSegment `json:"segments"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	TotalDurationMin float64        `json:"total_duration_min"`
	FuelEfficiency   float64        `json:"fuel_efficiency"`
	AvgCongestion    float64        `json:"avg_congestion"`
}

// Usable reports whether the route carries any geometry.
// A zero-segment route comes from degenerate input and must not be shown as valid.
func (r Route) Usable() bool { return len(r.Segments) > 0 }

// Path flattens segment coordinates back into a single polyline.
// Boundary points shared by consecutive segments appear once.
func (r Route) Path() []Coordinates {
	out := make([]Coordinates, 0)
	for i, s := range r.Segments {
		coords := s.Coordinates
		if i > 0 && len(coords) > 0 && len(out) > 0 && out[len(out)-1] == coords[0] {
			coords = coords[1:]
		}
		out = append(out, coords...)
	}
	return out
}
