package dto

import (
	"strings"
	"time"
	"traffic-route-service/internal/domain"
)

type LocationRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	// Pointer so that an omitted pair is rejected instead of read as [0,0].
	Coordinates *domain.Coordinates `json:"coordinates" validate:"required"`
}

// ToDomain must only be called on a validated request.
func (l LocationRequest) ToDomain() domain.Location {
	loc := domain.Location{Name: strings.TrimSpace(l.Name)}
	if l.Coordinates != nil {
		loc.Coordinates = *l.Coordinates
	}
	return loc
}

type DateRangeRequest struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

func (d *DateRangeRequest) ToDomain() *domain.DateRange {
	if d == nil {
		return nil
	}
	return &domain.DateRange{Start: d.Start, End: d.End}
}
