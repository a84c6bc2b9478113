package domain

import "time"

// Optional window of acceptable travel dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Represents one remembered route query for a user.
// Repeated saves of the same route bump SearchCount and refresh the timestamps in place.
type SearchHistoryItem struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Source        Location   `json:"source"`
	Destination   Location   `json:"destination"`
	DepartureTime time.Time  `json:"departureTime"`
	DateRange     *DateRange `json:"dateRange,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	SearchCount   int        `json:"searchCount"`
}
