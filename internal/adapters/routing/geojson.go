package routing

import (
	"errors"
	"fmt"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/ports"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// decodeRoutes extracts one polyline per LineString feature of a GeoJSON
// FeatureCollection. Features of other geometry types are skipped.
func decodeRoutes(raw []byte) ([]ports.RoutePath, error) {
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("parse feature collection: %w", err)
	}

	routes := make([]ports.RoutePath, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}

		ls, ok := f.Geometry.(*geom.LineString)
		if !ok {
			continue
		}

		coords := make([]domain.Coordinates, 0, ls.NumCoords())
		for _, c := range ls.Coords() {
			if len(c) < 2 {
				return nil, fmt.Errorf("feature %d: coordinate has %d values", i, len(c))
			}
			coords = append(coords, domain.Coordinates{Lon: c.X(), Lat: c.Y()})
		}

		routes = append(routes, ports.RoutePath{Coordinates: coords})
	}

	if len(routes) == 0 {
		return nil, errors.New("no LineString routes in response")
	}

	return routes, nil
}

// encodeRoutes renders routes as a GeoJSON FeatureCollection of LineStrings.
func encodeRoutes(routes []ports.RoutePath) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(routes))}
	for _, r := range routes {
		flat := make([]float64, 0, 2*len(r.Coordinates))
		for _, c := range r.Coordinates {
			flat = append(flat, c.Lon, c.Lat)
		}
		ls := geom.NewLineStringFlat(geom.XY, flat)
		fc.Features = append(fc.Features, &geojson.Feature{Geometry: ls})
	}

	return fc.MarshalJSON()
}
