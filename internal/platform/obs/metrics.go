package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traffic_operation_duration_seconds",
			Help:    "Duration of timed operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "status"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_predictions_total",
			Help: "Predictions served, by outcome",
		},
		[]string{"outcome"},
	)

	RoutingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_routing_fallbacks_total",
			Help: "Routes scored on a straight-line path because the provider failed",
		},
		[]string{"variant"},
	)

	PathCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_path_cache_lookups_total",
			Help: "Path cache lookups, by result",
		},
		[]string{"result"},
	)

	HistoryStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traffic_history_store_errors_total",
			Help: "Swallowed history persistence errors",
		},
		[]string{"op"},
	)
)
