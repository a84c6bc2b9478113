package routing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/ports"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRoutesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[8.68, 49.41], [8.69, 49.42], [8.70, 49.43]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[8.68, 49.41], [8.66, 49.42], [8.70, 49.43]]}}
  ]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts ORSOptions) *ORSDirectionsProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	p, err := NewORSDirectionsProvider("test-key", opts)
	require.NoError(t, err)
	return p
}

func testRequest(profile ports.RouteProfile) ports.RouteRequest {
	return ports.RouteRequest{
		Source:      domain.Coordinates{Lon: 8.68, Lat: 49.41},
		Destination: domain.Coordinates{Lon: 8.70, Lat: 49.43},
		Profile:     profile,
	}
}

func TestORSDirectionsDecodesAlternatives(t *testing.T) {
	var got directionsRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/directions/driving-car/geojson", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{})

	resp, err := p.Directions(context.Background(), testRequest(ports.ProfileAlternatives))
	require.NoError(t, err)

	require.Len(t, resp.Routes, 2)
	assert.Len(t, resp.Routes[0].Coordinates, 3)
	assert.Equal(t, domain.Coordinates{Lon: 8.66, Lat: 49.42}, resp.Routes[1].Coordinates[1])

	require.NotNil(t, got.AlternativeRoutes, "alternatives profile should request alternative routes")
	assert.Equal(t, 2, got.AlternativeRoutes.TargetCount)
	assert.Equal(t, [][]float64{{8.68, 49.41}, {8.70, 49.43}}, got.Coordinates)
}

func TestORSDirectionsFastestOmitsAlternatives(t *testing.T) {
	var got directionsRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{})

	_, err := p.Directions(context.Background(), testRequest(ports.ProfileFastest))
	require.NoError(t, err)
	assert.Nil(t, got.AlternativeRoutes)
	assert.Equal(t, "fastest", got.Preference)
}

func TestORSDirectionsRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{})

	resp, err := p.Directions(context.Background(), testRequest(ports.ProfileFastest))
	require.NoError(t, err)
	assert.Len(t, resp.Routes, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestORSDirectionsBreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not implemented", http.StatusNotImplemented)
	}, ORSOptions{FailureThreshold: 2})

	ctx := context.Background()
	for range 2 {
		_, err := p.Directions(ctx, testRequest(ports.ProfileFastest))
		require.Error(t, err)
	}

	_, err := p.Directions(ctx, testRequest(ports.ProfileFastest))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker should not reach upstream")
}

func TestORSDirectionsRejectsEmptyCollection(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"type":"FeatureCollection","features":[]}`)
	}, ORSOptions{})

	_, err := p.Directions(context.Background(), testRequest(ports.ProfileFastest))
	assert.Error(t, err)
}

func TestNewORSDirectionsProviderRequiresKey(t *testing.T) {
	_, err := NewORSDirectionsProvider("", ORSOptions{})
	assert.Error(t, err)
}

func TestORSDirectionsUnroutablePointsKeepBreakerClosed(t *testing.T) {
	var calls atomic.Int32
	var healthy atomic.Bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !healthy.Load() {
			http.Error(w, `{"error":{"code":2010,"message":"Could not find routable point"}}`, http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{FailureThreshold: 2})

	ctx := context.Background()
	for range 5 {
		_, err := p.Directions(ctx, testRequest(ports.ProfileFastest))
		var se *httpStatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Code)
	}

	healthy.Store(true)
	resp, err := p.Directions(ctx, testRequest(ports.ProfileFastest))
	require.NoError(t, err)
	assert.Len(t, resp.Routes, 2)
	assert.Equal(t, int32(6), calls.Load(), "404s are not retried and do not open the breaker")
}

func TestORSDirectionsRetriesSpendRateLimitTokens(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{RatePerMinute: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := p.Directions(ctx, testRequest(ports.ProfileFastest))
	require.Error(t, err)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(1), calls.Load(), "a 1/min budget allows a single upstream request")
	assert.Less(t, time.Since(start), 2*time.Second)

	// Running out of local quota says nothing about upstream health.
	assert.Equal(t, gobreaker.StateClosed, p.breaker.State())
}

func TestORSDirectionsHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, twoRoutesGeoJSON)
	}, ORSOptions{})

	start := time.Now()
	_, err := p.Directions(context.Background(), testRequest(ports.ProfileFastest))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"soon", 0},
		{now.Add(5 * time.Second).Format(http.TimeFormat), 5 * time.Second},
		{now.Add(-5 * time.Second).Format(http.TimeFormat), 0},
	}

	for _, tt := range tests {
		if got := parseRetryAfter(tt.in, now); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
