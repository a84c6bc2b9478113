package handlers

import (
	"net/http"
	"time"
	"traffic-route-service/internal/api/dto"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/services"
)

type PredictionHandler struct {
	Predictor *services.Predictor
}

// Predict scores both route variants for a departure and returns the full prediction.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	depart := time.Now()
	if req.DepartureTime != nil {
		depart = *req.DepartureTime
	}

	pred, err := h.Predictor.PredictTraffic(r.Context(), services.PredictionQuery{
		Session:       req.Session,
		UserID:        req.UserID,
		Source:        req.Source.ToDomain(),
		Destination:   req.Destination.ToDomain(),
		DepartureTime: depart,
		DateRange:     req.DateRange.ToDomain(),
	})
	if err != nil {
		writeServiceError(w, r, "predict", err)
		return
	}

	writeJSON(w, r, http.StatusOK, pred)
}

// RouteAtTime rescores a single variant for another hour of the day.
func (h *PredictionHandler) RouteAtTime(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteAtTimeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.Predictor.GetRouteAtTime(r.Context(), services.RouteAtTimeQuery{
		Session:     req.Session,
		Source:      req.Source.ToDomain(),
		Destination: req.Destination.ToDomain(),
		Hour:        *req.Hour,
		Variant:     domain.Variant(req.Variant),
	})
	if err != nil {
		writeServiceError(w, r, "route at time", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{Route: *route, Usable: route.Usable()})
}

// Insights recomputes the insight summary for the route currently on screen.
func (h *PredictionHandler) Insights(w http.ResponseWriter, r *http.Request) {
	var req dto.InsightsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res := services.GenerateDynamicInsights(req.Current, req.Hour, req.BestRoute, req.FuelEfficientRoute)
	writeJSON(w, r, http.StatusOK, res)
}
