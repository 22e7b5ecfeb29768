package coordinator

import "errors"

var (
	// ErrValidation is returned when a create request lacks a name or email.
	ErrValidation = errors.New("recordkeep: name and email are required")

	// ErrNotFound is returned when no store holds the requested id.
	ErrNotFound = errors.New("recordkeep: record not found")
)
