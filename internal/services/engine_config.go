package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is the source of jitter for congestion, fuel scores and confidence.
// Float64 must return values in [0, 1).
type Random interface {
	Float64() float64
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRandom) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandom returns a seeded Random that is safe for concurrent use.
func NewRandom(seed1, seed2 uint64) Random {
	return &lockedRandom{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewTimeSeededRandom seeds from the wall clock.
func NewTimeSeededRandom() Random {
	now := uint64(time.Now().UnixNano())
	return NewRandom(now, now>>7|1)
}

// HourWindow is an inclusive range of hours of the day.
type HourWindow struct {
	From int
	To   int
}

func (w HourWindow) Contains(hour int) bool {
	return hour >= w.From && hour <= w.To
}

// CongestionBand is the base congestion and jitter amplitude for one time window.
type CongestionBand struct {
	Window HourWindow
	Base   float64
	Jitter float64
}

type CongestionConfig struct {
	MorningRush CongestionBand
	EveningRush CongestionBand
	Midday      CongestionBand

	// Night covers hour >= NightFrom or hour <= NightTo.
	NightFrom   int
	NightTo     int
	NightBase   float64
	NightJitter float64

	DefaultBase   float64
	DefaultJitter float64

	// Upper bound of the base reduction applied to fuel-efficient routes.
	FuelEfficientReduction float64
	// Upper bound of the extra jitter applied to fastest routes.
	FastestExtraJitter float64
}

func DefaultCongestionConfig() CongestionConfig {
	return CongestionConfig{
		MorningRush:            CongestionBand{Window: HourWindow{From: 7, To: 9}, Base: 70, Jitter: 20},
		EveningRush:            CongestionBand{Window: HourWindow{From: 17, To: 19}, Base: 75, Jitter: 20},
		Midday:                 CongestionBand{Window: HourWindow{From: 11, To: 14}, Base: 40, Jitter: 20},
		NightFrom:              22,
		NightTo:                5,
		NightBase:              10,
		NightJitter:            15,
		DefaultBase:            30,
		DefaultJitter:          20,
		FuelEfficientReduction: 20,
		FastestExtraJitter:     10,
	}
}

type SegmentConfig struct {
	// Lower bound on points per segment.
	MinSegmentPoints int
	// Number of segments a long path is split into.
	TargetSegments int
	// Free-flow speed at zero congestion.
	BaseSpeedKmh float64
	// Fraction of speed lost at 100% congestion.
	MaxSlowdown float64
}

func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		MinSegmentPoints: 10,
		TargetSegments:   5,
		BaseSpeedKmh:     60,
		MaxSlowdown:      0.6,
	}
}

// FuelScoreConfig shapes the synthetic fuel efficiency score of one variant:
// Base + (100 - avgCongestion) / Divisor + U[0, Jitter).
type FuelScoreConfig struct {
	Base    float64
	Divisor float64
	Jitter  float64
}

type ScoreConfig struct {
	Fastest       FuelScoreConfig
	FuelEfficient FuelScoreConfig
	Min           float64
	Max           float64
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Fastest:       FuelScoreConfig{Base: 60, Divisor: 15, Jitter: 5},
		FuelEfficient: FuelScoreConfig{Base: 85, Divisor: 10, Jitter: 5},
		Min:           50,
		Max:           95,
	}
}

type TimingConfig struct {
	MorningRush        HourWindow
	MorningAlternative int
	EveningRush        HourWindow
	EveningAlternative int
	// Weekdays suggested as lower-traffic travel days.
	QuietWeekdays []time.Weekday
}

func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		MorningRush:        HourWindow{From: 7, To: 9},
		MorningAlternative: 10,
		EveningRush:        HourWindow{From: 17, To: 19},
		EveningAlternative: 20,
		QuietWeekdays:      []time.Weekday{time.Tuesday, time.Wednesday},
	}
}

type HistoryConfig struct {
	KeyPrefix         string
	MaxItems          int
	FrequentThreshold int
	// Per-axis coordinate tolerance, in degrees, for treating two routes as the same.
	MatchToleranceDeg float64
}

func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		KeyPrefix:         "traffic_search_history_",
		MaxItems:          50,
		FrequentThreshold: 3,
		MatchToleranceDeg: 0.001,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeHour maps any integer onto [0, 23].
func normalizeHour(hour int) int {
	h := hour % 24
	if h < 0 {
		h += 24
	}
	return h
}
