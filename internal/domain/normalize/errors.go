package normalize

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUndefinedNormalization signals a p90 attempt with zero minutes
	// played.
	ErrUndefinedNormalization = errors.New("undefined normalization")
)
