// Package pitch classifies pitch coordinates into the fixed 18-zone grid.
//
// The pitch is split into six bands along the length of play and three
// lateral bands, attacking left to right:
//
//	+----+----+----+----+----+----+
//	|  1 |  4 |  7 | 10 | 13 | 16 |
//	+----+----+----+----+----+----+
//	|  2 |  5 |  8 | 11 | 14 | 17 |
//	+----+----+----+----+----+----+
//	|  3 |  6 |  9 | 12 | 15 | 18 |
//	+----+----+----+----+----+----+
//
// Zones 1-6 form the defensive (buildup) third, 7-12 the middle
// (progression) third, and 13-18 the attacking (finishing) third.
package pitch

// Default StatsBomb pitch dimensions.
const (
	DefaultLength = 120.0
	DefaultWidth  = 80.0

	// ZoneCount is the number of zones in the fixed partition.
	ZoneCount = 18

	lengthBands  = 6
	lateralBands = 3
)

// Third groups zones by phase of play.
type Third int

// Thirds of the pitch, in attacking direction.
const (
	ThirdBuildup Third = iota
	ThirdProgression
	ThirdFinishing
)

// Classifier maps coordinates to zone identifiers. It is stateless after
// construction and safe for concurrent use.
type Classifier struct {
	length float64
	width  float64
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithDimensions overrides the pitch dimensions.
func WithDimensions(length, width float64) Option {
	return func(c *Classifier) {
		if length > 0 && width > 0 {
			c.length = length
			c.width = width
		}
	}
}

// New creates a classifier for the standard 120x80 pitch.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		length: DefaultLength,
		width:  DefaultWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the zone identifier (1..18) for the given coordinates.
// Coordinates outside the pitch are clamped to the nearest edge, so the
// function is total and never fails.
func (c *Classifier) Classify(x, y float64) int {
	x = clamp(x, 0, c.length)
	y = clamp(y, 0, c.width)

	xBand := int(x / (c.length / lengthBands))
	if xBand >= lengthBands {
		xBand = lengthBands - 1
	}
	yBand := int(y / (c.width / lateralBands))
	if yBand >= lateralBands {
		yBand = lateralBands - 1
	}

	return xBand*lateralBands + yBand + 1
}

// ThirdOf returns the phase-of-play third a zone belongs to.
func ThirdOf(zone int) Third {
	switch {
	case zone <= 6:
		return ThirdBuildup
	case zone <= 12:
		return ThirdProgression
	default:
		return ThirdFinishing
	}
}

// ZonesIn returns the zone identifiers making up a third, in ascending order.
func ZonesIn(t Third) []int {
	start := int(t)*6 + 1
	zones := make([]int, 6)
	for i := range zones {
		zones[i] = start + i
	}
	return zones
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
