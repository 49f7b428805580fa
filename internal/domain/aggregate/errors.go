package aggregate

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMismatchedWindow signals that metric totals and minutes totals
	// originate from different match-sets. Rolling such sets together
	// would silently corrupt p90 values.
	ErrMismatchedWindow = errors.New("mismatched aggregation window")
)
