package api

import (
	"net/http"
	"traffic-route-service/internal/api/handlers"
	"traffic-route-service/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(predictor *services.Predictor, history *services.SearchHistory, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	predictionHandler := &handlers.PredictionHandler{Predictor: predictor}
	historyHandler := &handlers.HistoryHandler{History: history}

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/predictions", predictionHandler.Predict)
	r.Post("/routes/at-time", predictionHandler.RouteAtTime)
	r.Post("/insights", predictionHandler.Insights)

	r.Route("/users/{userID}/history", func(r chi.Router) {
		r.Get("/", historyHandler.List)
		r.Post("/", historyHandler.Save)
		r.Delete("/", historyHandler.Clear)
		r.Get("/frequent", historyHandler.Frequent)
		r.Post("/lookup", historyHandler.Lookup)
		r.Delete("/{id}", historyHandler.Delete)
	})

	return r
}
