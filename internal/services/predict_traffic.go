package services

import (
	"context"
	"fmt"
	"time"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

type PredictionQuery struct {
	// Optional caller session used to discard superseded requests.
	Session string
	// Optional user; when set, a successful prediction is recorded in history.
	UserID        string
	Source        domain.Location
	Destination   domain.Location
	DepartureTime time.Time
	DateRange     *domain.DateRange
}

type RouteAtTimeQuery struct {
	Session     string
	Source      domain.Location
	Destination domain.Location
	Hour        int
	Variant     domain.Variant
}

// Predictor orchestrates both route variants, timing suggestions and insights.
type Predictor struct {
	scorer  *RouteScorer
	timing  TimingConfig
	rnd     Random
	history *SearchHistory
	tracker *RequestTracker

	confidenceMin    float64
	confidenceSpread float64
}

type PredictorOption func(*Predictor)

// WithHistory records successful predictions for queries that carry a user id.
func WithHistory(h *SearchHistory) PredictorOption {
	return func(p *Predictor) { p.history = h }
}

// WithRequestTracker enables stale-request detection per session.
func WithRequestTracker(t *RequestTracker) PredictorOption {
	return func(p *Predictor) { p.tracker = t }
}

func WithTimingConfig(c TimingConfig) PredictorOption {
	return func(p *Predictor) { p.timing = c }
}

func NewPredictor(scorer *RouteScorer, rnd Random, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		scorer:           scorer,
		timing:           DefaultTimingConfig(),
		rnd:              rnd,
		confidenceMin:    85,
		confidenceSpread: 10,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PredictTraffic scores the fastest and fuel-efficient variants concurrently
// and assembles the prediction once both are done.
func (p *Predictor) PredictTraffic(ctx context.Context, q PredictionQuery) (_ *domain.TrafficPrediction, err error) {
	defer obs.Time(ctx, "predictor.PredictTraffic")(&err)

	if err := validateEndpoints(q.Source, q.Destination); err != nil {
		return nil, fmt.Errorf("predict traffic: %w", err)
	}

	ticket := p.tracker.Begin(sessionKey(q.Session, "predict"))
	defer p.tracker.Finish(ticket)
	hour := q.DepartureTime.Hour()

	var best, fuelEfficient domain.Route
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := p.scorer.Score(gctx, q.Source, q.Destination, domain.VariantFastest, hour)
		if err != nil {
			return fmt.Errorf("fastest route: %w", err)
		}
		best = r
		return nil
	})
	g.Go(func() error {
		r, err := p.scorer.Score(gctx, q.Source, q.Destination, domain.VariantFuelEfficient, hour)
		if err != nil {
			return fmt.Errorf("fuel-efficient route: %w", err)
		}
		fuelEfficient = r
		return nil
	})
	if err := g.Wait(); err != nil {
		obs.PredictionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("predict traffic: %w", err)
	}

	if !p.tracker.IsCurrent(ticket) {
		obs.PredictionsTotal.WithLabelValues("stale").Inc()
		return nil, fmt.Errorf("predict traffic: %w", ErrStaleRequest)
	}

	prediction := &domain.TrafficPrediction{
		BestRoute:            best,
		FuelEfficientRoute:   fuelEfficient,
		OptimalDepartureTime: FormatHour(p.timing.OptimalHour(hour)),
		OptimalDate:          p.timing.OptimalDate(q.DateRange),
		UsedDateRange:        q.DateRange != nil,
		Confidence:           p.confidenceMin + p.rnd.Float64()*p.confidenceSpread,
		Insights:             GenerateDynamicInsights(best, hour, best, fuelEfficient),
	}

	if p.history != nil && q.UserID != "" {
		p.history.SaveSearch(ctx, q.UserID, q.Source, q.Destination, q.DepartureTime, q.DateRange)
	}

	obs.PredictionsTotal.WithLabelValues("ok").Inc()
	return prediction, nil
}

// GetRouteAtTime scores a single variant for the given hour.
func (p *Predictor) GetRouteAtTime(ctx context.Context, q RouteAtTimeQuery) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "predictor.GetRouteAtTime")(&err)

	if err := validateEndpoints(q.Source, q.Destination); err != nil {
		return nil, fmt.Errorf("route at time: %w", err)
	}

	ticket := p.tracker.Begin(sessionKey(q.Session, "route"))
	defer p.tracker.Finish(ticket)

	route, err := p.scorer.Score(ctx, q.Source, q.Destination, q.Variant, q.Hour)
	if err != nil {
		return nil, fmt.Errorf("route at time: %w", err)
	}

	if !p.tracker.IsCurrent(ticket) {
		return nil, fmt.Errorf("route at time: %w", ErrStaleRequest)
	}

	return &route, nil
}

func validateEndpoints(source, destination domain.Location) error {
	if err := source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return nil
}

// Predictions and timeline lookups of one session supersede only their own kind.
func sessionKey(session, kind string) string {
	if session == "" {
		return ""
	}
	return session + ":" + kind
}
