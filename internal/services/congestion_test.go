package services

import (
	"testing"
	"traffic-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCongestionForHourBands(t *testing.T) {
	tests := []struct {
		hour   int
		lo, hi float64
	}{
		{8, 70, 90},
		{18, 75, 95},
		{12, 40, 60},
		{2, 10, 25},
		{23, 10, 25},
		{15, 30, 50},
	}

	m := NewCongestionModel(DefaultCongestionConfig(), NewRandom(1, 2))
	for _, tt := range tests {
		for range 200 {
			got := m.CongestionForHour(tt.hour)
			if got < tt.lo || got > tt.hi {
				t.Fatalf("CongestionForHour(%d) = %v, want in [%v, %v]", tt.hour, got, tt.lo, tt.hi)
			}
		}
	}
}

func TestCongestionAlwaysWithinBounds(t *testing.T) {
	m := NewCongestionModel(DefaultCongestionConfig(), NewRandom(7, 11))
	variants := []domain.Variant{domain.VariantFastest, domain.VariantFuelEfficient}

	for hour := 0; hour < 24; hour++ {
		for _, v := range variants {
			for range 50 {
				c := m.CongestionFor(hour, v)
				assert.GreaterOrEqual(t, c, 0.0)
				assert.LessOrEqual(t, c, 100.0)
			}
		}
	}
}

func TestCongestionVariantEffect(t *testing.T) {
	// With maximal draws the evening rush overflows and must clamp to 100.
	high := NewCongestionModel(DefaultCongestionConfig(), fixedRandom(0.999999))
	assert.Equal(t, 100.0, high.CongestionFor(18, domain.VariantFastest))

	// Fuel-efficient night routes can have their base reduced to zero.
	assert.InDelta(t, 0+0.999999*15, high.CongestionFor(2, domain.VariantFuelEfficient), 1e-6)

	low := NewCongestionModel(DefaultCongestionConfig(), fixedRandom(0))
	assert.Equal(t, 70.0, low.CongestionFor(8, domain.VariantFastest))
	assert.Equal(t, 70.0, low.CongestionFor(8, domain.VariantFuelEfficient))

	mid := NewCongestionModel(DefaultCongestionConfig(), fixedRandom(0.5))
	// base 70 - 10 reduction + 10 jitter
	assert.InDelta(t, 70.0, mid.CongestionFor(8, domain.VariantFuelEfficient), 1e-9)
	// base 70 + 10 jitter + 5 extra
	assert.InDelta(t, 85.0, mid.CongestionFor(8, domain.VariantFastest), 1e-9)
}

func TestCongestionNormalizesHour(t *testing.T) {
	m := NewCongestionModel(DefaultCongestionConfig(), fixedRandom(0))
	assert.Equal(t, m.CongestionForHour(8), m.CongestionForHour(32))
	assert.Equal(t, m.CongestionForHour(23), m.CongestionForHour(-1))
}
