package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"traffic-route-service/internal/adapters/routing"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertRouteInvariants(t *testing.T, r domain.Route) {
	t.Helper()

	var duration, congestion float64
	for _, s := range r.Segments {
		duration += s.DurationMin
		congestion += s.CongestionLevel
		assert.GreaterOrEqual(t, s.CongestionLevel, 0.0)
		assert.LessOrEqual(t, s.CongestionLevel, 100.0)
	}

	assert.InDelta(t, duration, r.TotalDurationMin, 1e-9, "total duration must equal the segment sum")
	if len(r.Segments) > 0 {
		assert.InDelta(t, congestion/float64(len(r.Segments)), r.AvgCongestion, 1e-9, "avg congestion must equal the segment mean")
	}
	assert.GreaterOrEqual(t, r.FuelEfficiency, 50.0)
	assert.LessOrEqual(t, r.FuelEfficiency, 95.0)
}

func TestScoreRouteInvariants(t *testing.T) {
	main := linePath(60, domain.Coordinates{Lon: 77.59, Lat: 12.97}, domain.Coordinates{Lon: 77.64, Lat: 13.02})
	alt := linePath(80, domain.Coordinates{Lon: 77.59, Lat: 12.97}, domain.Coordinates{Lon: 77.64, Lat: 13.02})
	provider := routing.NewMockRoutingProvider(map[ports.RouteProfile]ports.RouteResponse{
		ports.ProfileFastest:      {Routes: []ports.RoutePath{{Coordinates: main}}},
		ports.ProfileAlternatives: {Routes: []ports.RoutePath{{Coordinates: main}, {Coordinates: alt}}},
	})
	scorer := newTestScorer(provider, NewRandom(42, 43))

	src := loc("MG Road", 77.59, 12.97)
	dst := loc("Hebbal", 77.64, 13.02)

	for hour := 0; hour < 24; hour++ {
		for _, v := range []domain.Variant{domain.VariantFastest, domain.VariantFuelEfficient} {
			r, err := scorer.Score(context.Background(), src, dst, v, hour)
			require.NoError(t, err)
			require.True(t, r.Usable())
			assertRouteInvariants(t, r)
			assert.Equal(t, v, r.Variant)
		}
	}
}

func TestScoreFuelEfficientPrefersSecondAlternative(t *testing.T) {
	main := linePath(12, domain.Coordinates{Lon: 0, Lat: 0}, domain.Coordinates{Lon: 1, Lat: 1})
	alt := linePath(30, domain.Coordinates{Lon: 0, Lat: 0}, domain.Coordinates{Lon: 1, Lat: 1})
	provider := routing.NewMockRoutingProvider(map[ports.RouteProfile]ports.RouteResponse{
		ports.ProfileAlternatives: {Routes: []ports.RoutePath{{Coordinates: main}, {Coordinates: alt}}},
	})
	scorer := newTestScorer(provider, fixedRandom(0.5))

	r, err := scorer.Score(context.Background(), loc("A", 0, 0), loc("B", 1, 1), domain.VariantFuelEfficient, 10)
	require.NoError(t, err)

	assert.Equal(t, alt, r.Path())
	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ports.ProfileAlternatives, calls[0].Profile)
}

func TestScoreFuelEfficientFallsBackToPrimary(t *testing.T) {
	main := linePath(12, domain.Coordinates{Lon: 0, Lat: 0}, domain.Coordinates{Lon: 1, Lat: 1})
	provider := routing.NewMockRoutingProvider(map[ports.RouteProfile]ports.RouteResponse{
		ports.ProfileAlternatives: {Routes: []ports.RoutePath{{Coordinates: main}}},
	})
	scorer := newTestScorer(provider, fixedRandom(0.5))

	r, err := scorer.Score(context.Background(), loc("A", 0, 0), loc("B", 1, 1), domain.VariantFuelEfficient, 10)
	require.NoError(t, err)
	assert.Equal(t, main, r.Path())
}

func TestScoreProviderFailureUsesStraightLine(t *testing.T) {
	scorer := newTestScorer(routing.NewFailingRoutingProvider(errors.New("upstream down")), fixedRandom(0.5))
	src := loc("A", 0, 0)
	dst := loc("B", 0.1, 0.1)

	r, err := scorer.Score(context.Background(), src, dst, domain.VariantFastest, 8)
	require.NoError(t, err)

	require.Len(t, r.Segments, 1)
	assert.Equal(t, []domain.Coordinates{src.Coordinates, dst.Coordinates}, r.Path())
	assert.InDelta(t, HaversineKm(src.Coordinates, dst.Coordinates), r.TotalDistanceKm, 1e-9)
	assertRouteInvariants(t, r)
}

func TestScoreEmptyProviderResponseUsesStraightLine(t *testing.T) {
	provider := routing.NewMockRoutingProvider(map[ports.RouteProfile]ports.RouteResponse{})
	scorer := newTestScorer(provider, fixedRandom(0.5))

	r, err := scorer.Score(context.Background(), loc("A", 0, 0), loc("B", 1, 1), domain.VariantFastest, 8)
	require.NoError(t, err)
	assert.Len(t, r.Path(), 2)
}

func TestScoreCancelledContextIsAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scorer := newTestScorer(routing.NewMockRoutingProvider(nil), fixedRandom(0.5))
	_, err := scorer.Score(ctx, loc("A", 0, 0), loc("B", 1, 1), domain.VariantFastest, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreRejectsBadArguments(t *testing.T) {
	scorer := newTestScorer(routing.NewMockRoutingProvider(nil), fixedRandom(0.5))

	_, err := scorer.Score(context.Background(), loc("A", 0, 0), loc("B", 1, 1), domain.Variant("scenic"), 8)
	assert.ErrorIs(t, err, domain.ErrUnknownVariant)

	_, err = scorer.Score(context.Background(), loc("A", 0, 0), loc("B", 1, 1), domain.VariantFastest, 24)
	assert.ErrorIs(t, err, domain.ErrInvalidHour)
}

func TestFuelEfficiencyFormula(t *testing.T) {
	scorer := newTestScorer(routing.NewMockRoutingProvider(nil), fixedRandom(0))

	// No jitter: fastest 60 + 60/15 = 64, fuel-efficient 85 + 60/10 = 91.
	assert.InDelta(t, 64.0, scorer.fuelEfficiency(domain.VariantFastest, 40), 1e-9)
	assert.InDelta(t, 91.0, scorer.fuelEfficiency(domain.VariantFuelEfficient, 40), 1e-9)

	// Clamped at the top of the band.
	assert.Equal(t, 95.0, scorer.fuelEfficiency(domain.VariantFuelEfficient, 0))
}

func TestScorePathEmptyIsUnusable(t *testing.T) {
	scorer := newTestScorer(routing.NewMockRoutingProvider(nil), fixedRandom(0.5))

	r := scorer.ScorePath(nil, domain.VariantFastest, 8)
	assert.False(t, r.Usable())
	assert.Zero(t, r.TotalDistanceKm)
	assert.Zero(t, r.TotalDurationMin)
	assert.False(t, math.IsNaN(r.AvgCongestion))
}
