package services

import (
	"math"
	"traffic-route-service/internal/domain"
)

var peakHours = []string{"7:00-9:00 AM", "5:00-7:00 PM"}

// PeakHours returns the static list of peak traffic windows.
func PeakHours() []string {
	out := make([]string, len(peakHours))
	copy(out, peakHours)
	return out
}

// FuelSavingsPct is how much better the fuel-efficient route scores than the fastest one.
// It is never negative.
func FuelSavingsPct(best, fuelEfficient domain.Route) float64 {
	savings := fuelEfficient.FuelEfficiency - best.FuelEfficiency
	if savings < 0 {
		return 0
	}
	return math.Round(savings*10) / 10
}

// GenerateDynamicInsights recomputes insights after the caller changes the
// inspected hour or the displayed variant.
//
// Congestion level and estimated time follow current, the route on screen.
// Fuel savings always compare the two canonical routes, whichever one is
// displayed. The inspected hour is part of the call for timeline callers but
// no field is derived from it; the hour is already baked into current.
// The function is pure.
func GenerateDynamicInsights(current domain.Route, _ int, best domain.Route, fuelEfficient domain.Route) domain.Insights {
	return domain.Insights{
		EstimatedTimeMin: math.Round(current.TotalDurationMin),
		FuelSavingsPct:   FuelSavingsPct(best, fuelEfficient),
		CongestionLevel:  domain.ClassifyCongestion(current.AvgCongestion),
		PeakHours:        PeakHours(),
	}
}
