package handlers

import (
	"net/http"
	"strings"
	"traffic-route-service/internal/api/dto"
	"traffic-route-service/internal/services"

	"github.com/go-chi/chi/v5"
)

type HistoryHandler struct {
	History *services.SearchHistory
}

// userID reads the path user id. It writes the 400 response itself when missing.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "userID"))
	if id == "" || len(id) > 128 {
		writeError(w, r, http.StatusBadRequest, "user id is required")
		return "", false
	}
	return id, true
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{Searches: h.History.GetSearchHistory(r.Context(), uid)})
}

// Save records a search without running a prediction.
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req dto.SaveSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	source, destination := req.Source.ToDomain(), req.Destination.ToDomain()
	if source.Validate() != nil || destination.Validate() != nil {
		writeError(w, r, http.StatusBadRequest, "source and destination need a name and valid coordinates")
		return
	}

	items := h.History.SaveSearch(r.Context(), uid, source, destination, req.DepartureTime, req.DateRange.ToDomain())
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{Searches: items})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{Searches: h.History.ClearHistory(r.Context(), uid)})
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{Searches: h.History.DeleteSearch(r.Context(), uid, id)})
}

func (h *HistoryHandler) Frequent(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.HistoryResponse{Searches: h.History.GetFrequentRoutes(r.Context(), uid)})
}

// Lookup reports how often the user searched a route and whether it counts as frequent.
func (h *HistoryHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req dto.RouteLookupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	count, frequent := h.History.RouteStats(r.Context(), uid, req.Source.ToDomain(), req.Destination.ToDomain())
	writeJSON(w, r, http.StatusOK, dto.RouteLookupResponse{SearchCount: count, Frequent: frequent})
}
