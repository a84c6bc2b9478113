package dto

import (
	"time"
	"traffic-route-service/internal/domain"
)

type SaveSearchRequest struct {
	Source        LocationRequest   `json:"source" validate:"required"`
	Destination   LocationRequest   `json:"destination" validate:"required"`
	DepartureTime time.Time         `json:"departure_time" validate:"required"`
	DateRange     *DateRangeRequest `json:"date_range"`
}

type RouteLookupRequest struct {
	Source      LocationRequest `json:"source" validate:"required"`
	Destination LocationRequest `json:"destination" validate:"required"`
}

type HistoryResponse struct {
	Searches []domain.SearchHistoryItem `json:"searches"`
}

type RouteLookupResponse struct {
	SearchCount int  `json:"search_count"`
	Frequent    bool `json:"frequent"`
}
