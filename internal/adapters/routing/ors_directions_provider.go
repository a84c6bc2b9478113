package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"traffic-route-service/internal/platform/obs"
	"traffic-route-service/internal/ports"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ORSDirectionsProvider implements RoutingProvider using the OpenRouteService
// directions API.
//
// It coordinates:
//   - Client-side rate limiting to stay within the ORS quota
//   - Retry with backoff for transient failures
//   - A circuit breaker so a failing upstream is not hammered
//
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[ports.RouteResponse]
}

type ORSOptions struct {
	BaseURL string
	// Requests per minute allowed towards ORS. Zero disables limiting.
	RatePerMinute int
	// Consecutive failures before the breaker opens.
	FailureThreshold uint32
	// How long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func NewORSDirectionsProvider(apiKey string, opts ORSOptions) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openrouteservice.org"
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout == 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), opts.RatePerMinute)
	}

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[ports.RouteResponse](gobreaker.Settings{
		Name:    "ors-directions",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !upstreamFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("routing circuit breaker changed state")
		},
	})

	return &ORSDirectionsProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: opts.BaseURL,
		profile: "driving-car",
		limiter: limiter,
		breaker: breaker,
	}, nil
}

type alternativeRoutes struct {
	TargetCount  int     `json:"target_count"`
	WeightFactor float64 `json:"weight_factor"`
	ShareFactor  float64 `json:"share_factor"`
}

type directionsRequest struct {
	Coordinates       [][]float64        `json:"coordinates"`
	Preference        string             `json:"preference"`
	AlternativeRoutes *alternativeRoutes `json:"alternative_routes,omitempty"`
}

// Directions requests a GeoJSON route (and optionally alternatives) from ORS.
func (o *ORSDirectionsProvider) Directions(
	ctx context.Context,
	req ports.RouteRequest,
) (_ ports.RouteResponse, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if !req.Source.Valid() || !req.Destination.Valid() {
		return ports.RouteResponse{}, errors.New("ors directions: source and destination must be valid coordinates")
	}

	body := directionsRequest{
		Coordinates: [][]float64{req.Source.CoordsToList(), req.Destination.CoordsToList()},
		Preference:  "fastest",
	}

	switch req.Profile {
	case ports.ProfileFastest:
	case ports.ProfileAlternatives:
		body.Preference = "recommended"
		body.AlternativeRoutes = &alternativeRoutes{TargetCount: 2, WeightFactor: 1.4, ShareFactor: 0.6}
	default:
		return ports.RouteResponse{}, fmt.Errorf("ors directions: unsupported profile %q", req.Profile)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("marshal directions request: %w", err)
	}

	return o.breaker.Execute(func() (ports.RouteResponse, error) {
		return o.fetchDirections(ctx, payload)
	})
}

func (o *ORSDirectionsProvider) fetchDirections(ctx context.Context, payload []byte) (ports.RouteResponse, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	resp, err := o.postWithRetry(ctx, endpoint, payload)
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("read directions response: %w", err)
	}

	routes, err := decodeRoutes(raw)
	if err != nil {
		return ports.RouteResponse{}, fmt.Errorf("decode directions response: %w", err)
	}

	return ports.RouteResponse{Routes: routes}, nil
}
