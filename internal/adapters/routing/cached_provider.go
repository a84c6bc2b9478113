package routing

import (
	"context"
	"fmt"
	"traffic-route-service/internal/platform/obs"
	"traffic-route-service/internal/ports"

	"github.com/sirupsen/logrus"
)

const pathCachePrefix = "route_path:"

// CachedProvider memoizes provider paths in a KeyValueStore so that repeated
// lookups for the same endpoints (e.g. scrubbing the departure hour) do not
// reach the upstream API. Expiry is left to the store.
type CachedProvider struct {
	next  ports.RoutingProvider
	store ports.KeyValueStore
}

func NewCachedProvider(next ports.RoutingProvider, store ports.KeyValueStore) *CachedProvider {
	return &CachedProvider{next: next, store: store}
}

// Coordinates are keyed at 5 decimals (about 1 m).
func pathCacheKey(req ports.RouteRequest) string {
	return fmt.Sprintf("%s%s:%.5f,%.5f;%.5f,%.5f",
		pathCachePrefix, req.Profile,
		req.Source.Lon, req.Source.Lat,
		req.Destination.Lon, req.Destination.Lat,
	)
}

func (c *CachedProvider) Directions(ctx context.Context, req ports.RouteRequest) (ports.RouteResponse, error) {
	key := pathCacheKey(req)

	// Cache failures only cost an upstream call.
	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		logrus.WithError(err).WithField("key", key).Warn("path cache read failed")
	case ok:
		routes, err := decodeRoutes([]byte(raw))
		if err == nil {
			obs.PathCacheLookups.WithLabelValues("hit").Inc()
			return ports.RouteResponse{Routes: routes}, nil
		}
		logrus.WithError(err).WithField("key", key).Warn("path cache entry unreadable")
	}
	obs.PathCacheLookups.WithLabelValues("miss").Inc()

	resp, err := c.next.Directions(ctx, req)
	if err != nil {
		return ports.RouteResponse{}, err
	}

	payload, err := encodeRoutes(resp.Routes)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("path cache encode failed")
		return resp, nil
	}
	if err := c.store.Set(ctx, key, string(payload)); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("path cache write failed")
	}

	return resp, nil
}
