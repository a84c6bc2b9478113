package routing

import (
	"context"
	"sync"
	"traffic-route-service/internal/ports"
)

// MockRoutingProvider returns canned responses per profile and records calls.
type MockRoutingProvider struct {
	mu        sync.Mutex
	responses map[ports.RouteProfile]ports.RouteResponse
	err       error
	calls     []ports.RouteRequest
}

func NewMockRoutingProvider(responses map[ports.RouteProfile]ports.RouteResponse) *MockRoutingProvider {
	return &MockRoutingProvider{responses: responses}
}

// NewFailingRoutingProvider returns a provider whose every call fails with err.
func NewFailingRoutingProvider(err error) *MockRoutingProvider {
	return &MockRoutingProvider{err: err}
}

func (p *MockRoutingProvider) Directions(ctx context.Context, req ports.RouteRequest) (ports.RouteResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.RouteResponse{}, err
	}
	if p.err != nil {
		return ports.RouteResponse{}, p.err
	}
	return p.responses[req.Profile], nil
}

func (p *MockRoutingProvider) Calls() []ports.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]ports.RouteRequest, len(p.calls))
	copy(out, p.calls)
	return out
}
