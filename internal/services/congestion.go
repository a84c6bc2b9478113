package services

import "traffic-route-service/internal/domain"

// CongestionModel maps an hour of day to a synthetic 0-100 congestion score.
type CongestionModel struct {
	cfg CongestionConfig
	rnd Random
}

func NewCongestionModel(cfg CongestionConfig, rnd Random) *CongestionModel {
	return &CongestionModel{cfg: cfg, rnd: rnd}
}

// band returns the base congestion and jitter amplitude for an hour.
func (m *CongestionModel) band(hour int) (base, jitter float64) {
	hour = normalizeHour(hour)
	c := m.cfg

	switch {
	case c.MorningRush.Window.Contains(hour):
		return c.MorningRush.Base, c.MorningRush.Jitter
	case c.EveningRush.Window.Contains(hour):
		return c.EveningRush.Base, c.EveningRush.Jitter
	case c.Midday.Window.Contains(hour):
		return c.Midday.Base, c.Midday.Jitter
	case hour >= c.NightFrom || hour <= c.NightTo:
		return c.NightBase, c.NightJitter
	default:
		return c.DefaultBase, c.DefaultJitter
	}
}

// CongestionForHour returns the variant-neutral congestion for an hour.
func (m *CongestionModel) CongestionForHour(hour int) float64 {
	base, jitter := m.band(hour)
	return clamp(base+m.rnd.Float64()*jitter, 0, 100)
}

// CongestionFor applies the variant effect on top of the hourly band.
// Fuel-efficient routes start from a reduced base; fastest routes get extra jitter.
func (m *CongestionModel) CongestionFor(hour int, variant domain.Variant) float64 {
	base, jitter := m.band(hour)

	switch variant {
	case domain.VariantFuelEfficient:
		base -= m.rnd.Float64() * m.cfg.FuelEfficientReduction
		if base < 0 {
			base = 0
		}
		return clamp(base+m.rnd.Float64()*jitter, 0, 100)
	case domain.VariantFastest:
		v := base + m.rnd.Float64()*jitter + m.rnd.Float64()*m.cfg.FastestExtraJitter
		return clamp(v, 0, 100)
	default:
		return clamp(base+m.rnd.Float64()*jitter, 0, 100)
	}
}
