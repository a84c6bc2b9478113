package domain

import "strings"

// A named place produced by place search. Immutable once created.
type Location struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrInvalidLocation
	}
	if !l.Coordinates.Valid() {
		return ErrInvalidLocation
	}
	return nil
}
