package repository

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEntityNotFound marks a query for a (team, manager) pair that has
	// no minutes in the requested window.
	ErrEntityNotFound = errors.New("entity not found")
)
