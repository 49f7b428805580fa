// Package catalog holds the static registry of metric definitions driving
// the aggregation pipeline. The catalog is built once at startup and is
// read-only for the lifetime of a pipeline run.
package catalog

import (
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// Class describes what a metric measures.
type Class int

// Metric classes.
const (
	// ClassVolume counts or sums raw actions; eligible for p90 scaling.
	ClassVolume Class = iota
	// ClassQuality is a dimensionless ratio of two volume totals; exempt
	// from p90 scaling.
	ClassQuality
	// ClassComposite pairs a volume and a quality sub-metric for TOPSIS.
	ClassComposite
)

// Default TOPSIS criterion weights.
const (
	DefaultVolumeWeight  = 0.35
	DefaultQualityWeight = 0.65
)

// Weights holds the TOPSIS criterion weights of a composite metric.
type Weights struct {
	Volume  float64
	Quality float64
}

// Definition is one self-describing metric. Volume definitions fold events
// through Match and Value; quality definitions divide two volume totals;
// composite definitions reference a volume and a quality sub-metric.
type Definition struct {
	Name          string
	Class         Class
	PerNinety     bool
	LowerIsBetter bool

	// Fold rule for volume definitions.
	Match func(model.Event) bool
	Value func(model.Event) float64

	// Ratio rule for quality definitions.
	Numerator   string
	Denominator string

	// Sub-metric references for composite definitions.
	VolumeRef  string
	QualityRef string
	Weights    Weights
}

// Count defines a volume metric counting events matching pred.
func Count(name string, pred func(model.Event) bool) Definition {
	return Definition{
		Name:      name,
		Class:     ClassVolume,
		PerNinety: true,
		Match:     pred,
		Value:     func(model.Event) float64 { return 1 },
	}
}

// Sum defines a volume metric summing value over events matching pred.
func Sum(name string, value func(model.Event) float64, pred func(model.Event) bool) Definition {
	return Definition{
		Name:      name,
		Class:     ClassVolume,
		PerNinety: true,
		Match:     pred,
		Value:     value,
	}
}

// ZoneCount defines a volume metric counting events matching pred whose
// annotated zone is one of zones.
func ZoneCount(name string, zones []int, pred func(model.Event) bool) Definition {
	inZone := make(map[int]bool, len(zones))
	for _, z := range zones {
		inZone[z] = true
	}
	return Count(name, func(e model.Event) bool {
		return inZone[e.Zone] && (pred == nil || pred(e))
	})
}

// EndZoneCount defines a volume metric counting events matching pred whose
// annotated end zone (pass or carry destination) is one of zones.
func EndZoneCount(name string, zones []int, pred func(model.Event) bool) Definition {
	inZone := make(map[int]bool, len(zones))
	for _, z := range zones {
		inZone[z] = true
	}
	return Count(name, func(e model.Event) bool {
		return inZone[e.EndZone] && (pred == nil || pred(e))
	})
}

// Ratio defines a quality metric as numerator total over denominator total.
// Ratio metrics are dimensionless and exempt from p90 scaling.
func Ratio(name, numerator, denominator string) Definition {
	return Definition{
		Name:        name,
		Class:       ClassQuality,
		Numerator:   numerator,
		Denominator: denominator,
	}
}

// Composite defines a TOPSIS-eligible metric from a volume and a quality
// sub-metric, weighted 35/65 unless overridden at catalog construction.
func Composite(name, volumeRef, qualityRef string) Definition {
	return Definition{
		Name:       name,
		Class:      ClassComposite,
		VolumeRef:  volumeRef,
		QualityRef: qualityRef,
		Weights:    Weights{Volume: DefaultVolumeWeight, Quality: DefaultQualityWeight},
	}
}

// Inverted marks the definition as lower-is-better for ranking purposes.
func (d Definition) Inverted() Definition {
	d.LowerIsBetter = true
	return d
}
