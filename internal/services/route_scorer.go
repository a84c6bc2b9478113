package services

import (
	"context"
	"fmt"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/platform/obs"
	"traffic-route-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// RouteScorer turns a source/destination pair into a scored Route for one variant.
type RouteScorer struct {
	provider  ports.RoutingProvider
	segmenter *Segmenter
	rnd       Random
	cfg       ScoreConfig
}

func NewRouteScorer(provider ports.RoutingProvider, segmenter *Segmenter, rnd Random, cfg ScoreConfig) *RouteScorer {
	return &RouteScorer{
		provider:  provider,
		segmenter: segmenter,
		rnd:       rnd,
		cfg:       cfg,
	}
}

// Score fetches a path from the routing provider and scores it.
//
// Provider failures do not fail the call: the route degrades to the straight
// line between source and destination. Only context cancellation and invalid
// arguments are returned as errors.
func (s *RouteScorer) Score(
	ctx context.Context,
	source domain.Location,
	destination domain.Location,
	variant domain.Variant,
	hour int,
) (domain.Route, error) {
	if _, err := domain.ParseVariant(string(variant)); err != nil {
		return domain.Route{}, fmt.Errorf("score route: %w", err)
	}
	if hour < 0 || hour > 23 {
		return domain.Route{}, fmt.Errorf("score route: hour %d: %w", hour, domain.ErrInvalidHour)
	}

	path, err := s.fetchPath(ctx, source.Coordinates, destination.Coordinates, variant)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Route{}, fmt.Errorf("score route: %w", ctxErr)
		}

		logrus.WithFields(logrus.Fields{
			"req_id":      obs.RequestID(ctx),
			"variant":     variant,
			"source":      source.Name,
			"destination": destination.Name,
		}).WithError(err).Warn("routing provider failed; using straight-line path")
		obs.RoutingFallbacks.WithLabelValues(string(variant)).Inc()

		path = []domain.Coordinates{source.Coordinates, destination.Coordinates}
	}

	return s.ScorePath(path, variant, hour), nil
}

func (s *RouteScorer) fetchPath(
	ctx context.Context,
	source domain.Coordinates,
	destination domain.Coordinates,
	variant domain.Variant,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "scorer.fetchPath")(&err)

	req := ports.RouteRequest{Source: source, Destination: destination, Profile: ports.ProfileFastest}
	if variant == domain.VariantFuelEfficient {
		req.Profile = ports.ProfileAlternatives
	}

	resp, err := s.provider.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions %s: %w", req.Profile, err)
	}

	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("directions %s: no routes returned", req.Profile)
	}

	// Alternatives favour the second route, which tends to avoid the main arteries.
	chosen := resp.Routes[0]
	if variant == domain.VariantFuelEfficient && len(resp.Routes) > 1 {
		chosen = resp.Routes[1]
	}

	if len(chosen.Coordinates) < 2 {
		return nil, fmt.Errorf("directions %s: route has %d points", req.Profile, len(chosen.Coordinates))
	}

	return chosen.Coordinates, nil
}

// ScorePath segments and scores a known path without any I/O.
func (s *RouteScorer) ScorePath(path []domain.Coordinates, variant domain.Variant, hour int) domain.Route {
	segments := s.segmenter.Segment(path, hour, variant)

	var distance, duration, congestion float64
	for _, seg := range segments {
		distance += seg.DistanceKm
		duration += seg.DurationMin
		congestion += seg.CongestionLevel
	}

	avg := 0.0
	if len(segments) > 0 {
		avg = congestion / float64(len(segments))
	}

	return domain.Route{
		ID:               fmt.Sprintf("%s-%02d", variant, normalizeHour(hour)),
		Name:             variant.RouteName(),
		Variant:          variant,
		Segments:         segments,
		TotalDistanceKm:  distance,
		TotalDurationMin: duration,
		FuelEfficiency:   s.fuelEfficiency(variant, avg),
		AvgCongestion:    avg,
	}
}

func (s *RouteScorer) fuelEfficiency(variant domain.Variant, avgCongestion float64) float64 {
	fc := s.cfg.Fastest
	if variant == domain.VariantFuelEfficient {
		fc = s.cfg.FuelEfficient
	}

	score := fc.Base + (100-avgCongestion)/fc.Divisor + s.rnd.Float64()*fc.Jitter
	return clamp(score, s.cfg.Min, s.cfg.Max)
}
