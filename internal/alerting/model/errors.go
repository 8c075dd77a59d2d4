package model

import "errors"

var (
	// ErrStoreUnavailable means the record store handle was never initialized
	// (missing or bad database configuration). Surfaced before any query runs.
	ErrStoreUnavailable = errors.New("alert store not configured")

	// ErrNotFound means no record matched the requested identifier.
	ErrNotFound = errors.New("alert not found")

	// ErrInvalidAction means the action name is outside the recognized set.
	ErrInvalidAction = errors.New("invalid action")
)
