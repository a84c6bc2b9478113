package domain

import "errors"

var (
	ErrUnknownVariant  = errors.New("unknown route variant")
	ErrInvalidHour     = errors.New("hour must be between 0 and 23")
	ErrInvalidLocation = errors.New("location requires a name and valid coordinates")
)
