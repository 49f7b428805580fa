package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnknownSubmetric rejects a catalog whose ratio or composite
	// definitions reference a metric that does not exist. Fatal to
	// pipeline startup.
	ErrUnknownSubmetric = errors.New("unknown sub-metric reference")

	// ErrInvalidDefinition rejects malformed definitions at load time.
	ErrInvalidDefinition = errors.New("invalid metric definition")

	// ErrUnknownMetric marks a query for a metric the catalog does not
	// define.
	ErrUnknownMetric = errors.New("unknown metric")
)
