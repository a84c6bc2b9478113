package services

import (
	"context"
	"slices"
	"strings"
	"time"
	"traffic-route-service/internal/domain"
	"traffic-route-service/internal/platform/obs"
	"traffic-route-service/internal/ports"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Persisted shape of one user's history.
type historyDocument struct {
	Searches []domain.SearchHistoryItem `json:"searches"`
}

// SearchHistory keeps a capped, deduplicated, most-recent-first log of route
// queries per user on top of a key-value store.
//
// Persistence errors never reach the caller: unreadable history is treated as
// empty and failed writes are logged while the computed list is still returned.
// Read-modify-write cycles for one user are not serialized.
type SearchHistory struct {
	store ports.KeyValueStore
	cfg   HistoryConfig
	now   func() time.Time
	newID func() string
}

func NewSearchHistory(store ports.KeyValueStore, cfg HistoryConfig) *SearchHistory {
	return &SearchHistory{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (h *SearchHistory) key(userID string) string {
	return h.cfg.KeyPrefix + userID
}

func (h *SearchHistory) load(ctx context.Context, userID string) []domain.SearchHistoryItem {
	raw, ok, err := h.store.Get(ctx, h.key(userID))
	if err != nil {
		h.logFailure(ctx, "load", userID, err)
		return []domain.SearchHistoryItem{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []domain.SearchHistoryItem{}
	}

	var doc historyDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		h.logFailure(ctx, "parse", userID, err)
		return []domain.SearchHistoryItem{}
	}
	if doc.Searches == nil {
		return []domain.SearchHistoryItem{}
	}

	return doc.Searches
}

func (h *SearchHistory) persist(ctx context.Context, userID string, items []domain.SearchHistoryItem) {
	payload, err := json.Marshal(historyDocument{Searches: items})
	if err != nil {
		h.logFailure(ctx, "encode", userID, err)
		return
	}

	if err := h.store.Set(ctx, h.key(userID), string(payload)); err != nil {
		h.logFailure(ctx, "save", userID, err)
	}
}

func (h *SearchHistory) logFailure(ctx context.Context, op, userID string, err error) {
	obs.HistoryStoreErrors.WithLabelValues(op).Inc()
	logrus.WithFields(logrus.Fields{
		"req_id":  obs.RequestID(ctx),
		"op":      "history." + op,
		"user_id": userID,
	}).WithError(err).Error("search history persistence failed")
}

func (h *SearchHistory) match(item domain.SearchHistoryItem, source, destination domain.Location) bool {
	return SameRoute(
		RouteEndpoints{Source: item.Source.Coordinates, Destination: item.Destination.Coordinates},
		RouteEndpoints{Source: source.Coordinates, Destination: destination.Coordinates},
		h.cfg.MatchToleranceDeg,
	)
}

// SaveSearch records a query. A repeat of a known route bumps its count,
// refreshes its times and moves it to the front; otherwise a new item is
// prepended. The list is then capped, dropping the least recently touched.
func (h *SearchHistory) SaveSearch(
	ctx context.Context,
	userID string,
	source domain.Location,
	destination domain.Location,
	departureTime time.Time,
	dateRange *domain.DateRange,
) []domain.SearchHistoryItem {
	if userID == "" {
		return []domain.SearchHistoryItem{}
	}

	items := h.load(ctx, userID)
	now := h.now()

	idx := slices.IndexFunc(items, func(it domain.SearchHistoryItem) bool {
		return h.match(it, source, destination)
	})

	var entry domain.SearchHistoryItem
	if idx >= 0 {
		entry = items[idx]
		entry.SearchCount++
		entry.Timestamp = now
		entry.DepartureTime = departureTime
		entry.DateRange = dateRange
		items = slices.Delete(items, idx, idx+1)
	} else {
		entry = domain.SearchHistoryItem{
			ID:            h.newID(),
			UserID:        userID,
			Source:        source,
			Destination:   destination,
			DepartureTime: departureTime,
			DateRange:     dateRange,
			Timestamp:     now,
			SearchCount:   1,
		}
	}

	items = slices.Insert(items, 0, entry)
	if h.cfg.MaxItems > 0 && len(items) > h.cfg.MaxItems {
		items = items[:h.cfg.MaxItems]
	}

	h.persist(ctx, userID, items)
	return items
}

// GetSearchHistory returns the user's history, most recent first.
func (h *SearchHistory) GetSearchHistory(ctx context.Context, userID string) []domain.SearchHistoryItem {
	if userID == "" {
		return []domain.SearchHistoryItem{}
	}
	return h.load(ctx, userID)
}

// GetFrequentRoutes returns items searched at least FrequentThreshold times, in history order.
func (h *SearchHistory) GetFrequentRoutes(ctx context.Context, userID string) []domain.SearchHistoryItem {
	items := h.GetSearchHistory(ctx, userID)

	out := make([]domain.SearchHistoryItem, 0, len(items))
	for _, it := range items {
		if it.SearchCount >= h.cfg.FrequentThreshold {
			out = append(out, it)
		}
	}
	return out
}

// DeleteSearch removes the item with the given id and returns the remaining list.
// Unknown ids leave history untouched.
func (h *SearchHistory) DeleteSearch(ctx context.Context, userID, id string) []domain.SearchHistoryItem {
	items := h.GetSearchHistory(ctx, userID)

	idx := slices.IndexFunc(items, func(it domain.SearchHistoryItem) bool { return it.ID == id })
	if idx < 0 {
		return items
	}

	items = slices.Delete(items, idx, idx+1)
	h.persist(ctx, userID, items)
	return items
}

// ClearHistory removes all of the user's history and returns the now empty list.
func (h *SearchHistory) ClearHistory(ctx context.Context, userID string) []domain.SearchHistoryItem {
	if userID == "" {
		return []domain.SearchHistoryItem{}
	}
	if err := h.store.Remove(ctx, h.key(userID)); err != nil {
		h.logFailure(ctx, "clear", userID, err)
	}
	return []domain.SearchHistoryItem{}
}

// GetRouteSearchCount returns how often the user searched this route, or 0.
func (h *SearchHistory) GetRouteSearchCount(ctx context.Context, userID string, source, destination domain.Location) int {
	count, _ := h.RouteStats(ctx, userID, source, destination)
	return count
}

func (h *SearchHistory) IsFrequentRoute(ctx context.Context, userID string, source, destination domain.Location) bool {
	_, frequent := h.RouteStats(ctx, userID, source, destination)
	return frequent
}

// RouteStats returns the search count and frequent flag from a single read of the history.
func (h *SearchHistory) RouteStats(ctx context.Context, userID string, source, destination domain.Location) (count int, frequent bool) {
	for _, it := range h.GetSearchHistory(ctx, userID) {
		if h.match(it, source, destination) {
			count = it.SearchCount
			break
		}
	}
	return count, count >= h.cfg.FrequentThreshold
}
