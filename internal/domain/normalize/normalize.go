// Package normalize rescales raw metric totals to a 90-minute basis.
package normalize

import (
	"fmt"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
)

// minutesPerMatch is the fixed time basis metrics are rescaled to.
const minutesPerMatch = 90.0

// PerNinety rescales a raw total to its 90-minute equivalent. Zero minutes
// makes the normalization undefined; callers must pre-filter zero-minute
// entities instead of receiving a division artifact.
func PerNinety(raw, minutes float64) (float64, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %.1f minutes played", ErrUndefinedNormalization, minutes)
	}
	return raw / minutes * minutesPerMatch, nil
}

// Normalizer applies p90 scaling across a totals map, honoring each
// definition's exemption flag.
type Normalizer struct {
	catalog *catalog.Catalog
}

// New creates a normalizer bound to a catalog.
func New(cat *catalog.Catalog) *Normalizer {
	return &Normalizer{catalog: cat}
}

// Apply returns a copy of totals where every p90-eligible metric is
// rescaled to the 90-minute basis. Ratio metrics are already dimensionless
// and pass through unchanged. Fails when minutes is zero.
func (n *Normalizer) Apply(totals map[string]float64, minutes float64) (map[string]float64, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: %.1f minutes played", ErrUndefinedNormalization, minutes)
	}
	out := make(map[string]float64, len(totals))
	for name, raw := range totals {
		def, ok := n.catalog.Lookup(name)
		if ok && def.PerNinety {
			out[name] = raw / minutes * minutesPerMatch
		} else {
			out[name] = raw
		}
	}
	return out, nil
}
