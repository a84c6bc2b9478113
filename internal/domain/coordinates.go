package domain

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Immutable geographic coordinates (longitude, latitude).
// Serialized as a [lng, lat] pair to match GeoJSON ordering.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether the coordinates lie within WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) {
		return false
	}
	return c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lon, c.Lat})
}

func (c *Coordinates) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("coordinates: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinates: expected [lng, lat], got %d values", len(pair))
	}
	c.Lon, c.Lat = pair[0], pair[1]
	return nil
}
