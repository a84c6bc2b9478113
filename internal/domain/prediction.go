package domain

// Coarse congestion bucket shown in insights.
type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHigh     CongestionLevel = "high"
	CongestionSevere   CongestionLevel = "severe"
)

// ClassifyCongestion buckets a 0-100 congestion score.
func ClassifyCongestion(avg float64) CongestionLevel {
	switch {
	case avg < 30:
		return CongestionLow
	case avg < 60:
		return CongestionModerate
	case avg < 80:
		return CongestionHigh
	default:
		return CongestionSevere
	}
}

// Derived summary of a prediction. Never edited by hand.
type Insights struct {
	EstimatedTimeMin float64         `json:"estimated_time_min"`
	FuelSavingsPct   float64         `json:"fuel_savings_pct"`
	CongestionLevel  CongestionLevel `json:"congestion_level"`
	PeakHours        []string        `json:"peak_hours"`
}

// Result of a single prediction query.
type TrafficPrediction struct {
	BestRoute            Route    `json:"best_route"`
	FuelEfficientRoute   Route    `json:"fuel_efficient_route"`
	OptimalDepartureTime string   `json:"optimal_departure_time"`
	OptimalDate          string   `json:"optimal_date"`
	UsedDateRange        bool     `json:"used_date_range"`
	Confidence           float64  `json:"confidence"`
	Insights             Insights `json:"insights"`
}

// WithInsights returns a copy carrying the given insights; the routes keep their scores.
func (p TrafficPrediction) WithInsights(i Insights) TrafficPrediction {
	p.Insights = i
	return p
}
