package dto

import (
	"time"
	"traffic-route-service/internal/domain"
)

type PredictionRequest struct {
	// Optional client session; a newer request in the same session supersedes older ones.
	Session     string          `json:"session" validate:"max=128"`
	UserID      string          `json:"user_id" validate:"max=128"`
	Source      LocationRequest `json:"source" validate:"required"`
	Destination LocationRequest `json:"destination" validate:"required"`
	// Defaults to now.
	DepartureTime *time.Time        `json:"departure_time"`
	DateRange     *DateRangeRequest `json:"date_range"`
}

type RouteAtTimeRequest struct {
	Session     string          `json:"session" validate:"max=128"`
	Source      LocationRequest `json:"source" validate:"required"`
	Destination LocationRequest `json:"destination" validate:"required"`
	Hour        *int            `json:"hour" validate:"required,min=0,max=23"`
	Variant     string          `json:"variant" validate:"required,oneof=fastest fuel-efficient"`
}

type RouteResponse struct {
	Route  domain.Route `json:"route"`
	Usable bool         `json:"usable"`
}

type InsightsRequest struct {
	Current            domain.Route `json:"current"`
	Hour               int          `json:"hour" validate:"min=0,max=23"`
	BestRoute          domain.Route `json:"best_route"`
	FuelEfficientRoute domain.Route `json:"fuel_efficient_route"`
}
