package cluster

import "errors"

// Sentinel errors for clustering.
var (
	// ErrInsufficientData means the comparison set is too small for the
	// requested number of clusters.
	ErrInsufficientData = errors.New("insufficient data for clustering")

	// ErrFeatureMismatch means a point's feature vector does not line up
	// with the clusterer's feature list.
	ErrFeatureMismatch = errors.New("feature vector mismatch")
)
