package domain

import "errors"

var (
	// ErrInvalidArgument marks malformed caller input (coordinates, radius, ids).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a missing garage or service.
	ErrNotFound = errors.New("not found")
	// ErrMissingCoordinates marks a garage that cannot be placed on a map.
	ErrMissingCoordinates = errors.New("garage has no coordinates")
)
