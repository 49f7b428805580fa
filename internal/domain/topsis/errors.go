package topsis

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEmptyComparisonSet rejects a ranking invocation with zero
	// entities. A single-entity set is valid and degenerate.
	ErrEmptyComparisonSet = errors.New("empty comparison set")
)
