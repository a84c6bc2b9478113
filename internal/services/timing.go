package services

import (
	"fmt"
	"slices"
	"time"
	"traffic-route-service/internal/domain"
)

const optimalDateLayout = "Monday, January 2"

// OptimalHour suggests a departure hour that avoids the known rush windows.
// Outside the rush windows the requested hour is returned unchanged.
func (c TimingConfig) OptimalHour(hour int) int {
	switch {
	case c.MorningRush.Contains(hour):
		return c.MorningAlternative
	case c.EveningRush.Contains(hour):
		return c.EveningAlternative
	default:
		return hour
	}
}

// OptimalDate returns a human-readable travel day suggestion.
// Without a range it suggests tomorrow; with one it picks the first quiet
// weekday in [Start, End], falling back to Start.
func (c TimingConfig) OptimalDate(r *domain.DateRange) string {
	if r == nil {
		return "Tomorrow"
	}

	day := startOfDay(r.Start)
	last := startOfDay(r.End.In(r.Start.Location()))

	for d := day; !d.After(last); d = d.AddDate(0, 0, 1) {
		if slices.Contains(c.QuietWeekdays, d.Weekday()) {
			return d.Format(optimalDateLayout)
		}
	}

	return day.Format(optimalDateLayout)
}

// FormatHour renders an hour of day as "HH:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", normalizeHour(hour))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
