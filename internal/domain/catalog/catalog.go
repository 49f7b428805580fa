package catalog

import (
	"fmt"
)

// Catalog is an ordered, immutable registry of metric definitions.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

// Option applies a configuration option at catalog construction.
type Option func(*settings)

type settings struct {
	weights Weights
}

// WithWeights overrides the TOPSIS weights applied to every composite.
func WithWeights(volume, quality float64) Option {
	return func(s *settings) {
		if volume > 0 && quality > 0 {
			s.weights = Weights{Volume: volume, Quality: quality}
		}
	}
}

// New builds a catalog from defs, preserving order. It validates the
// registry: duplicate names, ratio references, and composite sub-metric
// references are checked at load time and reject the whole catalog.
func New(defs []Definition, opts ...Option) (*Catalog, error) {
	s := settings{weights: Weights{Volume: DefaultVolumeWeight, Quality: DefaultQualityWeight}}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Catalog{
		defs:  make([]Definition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(c.defs, defs)

	for i := range c.defs {
		d := &c.defs[i]
		if d.Name == "" {
			return nil, fmt.Errorf("%w: definition %d has no name", ErrInvalidDefinition, i)
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate metric %q", ErrInvalidDefinition, d.Name)
		}
		if d.Class == ClassComposite {
			d.Weights = s.weights
		}
		c.index[d.Name] = i
	}

	for _, d := range c.defs {
		switch d.Class {
		case ClassVolume:
			if d.Match == nil || d.Value == nil {
				return nil, fmt.Errorf("%w: volume metric %q lacks a fold rule", ErrInvalidDefinition, d.Name)
			}
		case ClassQuality:
			if err := c.requireVolume(d.Name, d.Numerator); err != nil {
				return nil, err
			}
			if err := c.requireVolume(d.Name, d.Denominator); err != nil {
				return nil, err
			}
		case ClassComposite:
			if err := c.require(d.Name, d.VolumeRef, ClassVolume); err != nil {
				return nil, err
			}
			if err := c.require(d.Name, d.QualityRef, ClassQuality); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Catalog) requireVolume(owner, ref string) error {
	return c.require(owner, ref, ClassVolume)
}

func (c *Catalog) require(owner, ref string, class Class) error {
	i, ok := c.index[ref]
	if !ok {
		return fmt.Errorf("%w: metric %q references unknown sub-metric %q", ErrUnknownSubmetric, owner, ref)
	}
	if c.defs[i].Class != class {
		return fmt.Errorf("%w: metric %q references %q of the wrong class", ErrUnknownSubmetric, owner, ref)
	}
	return nil
}

// Definitions returns the ordered definitions. The slice is a copy; the
// catalog itself never changes after New.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup returns the definition with the given name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Volumes returns the foldable (volume) definitions in order.
func (c *Catalog) Volumes() []Definition {
	return c.byClass(ClassVolume)
}

// Qualities returns the ratio (quality) definitions in order.
func (c *Catalog) Qualities() []Definition {
	return c.byClass(ClassQuality)
}

// Composites returns the TOPSIS-eligible definitions in order.
func (c *Catalog) Composites() []Definition {
	return c.byClass(ClassComposite)
}

func (c *Catalog) byClass(class Class) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if d.Class == class {
			out = append(out, d)
		}
	}
	return out
}

// Derive extends totals with every quality metric computed from the volume
// totals already present. A ratio with a zero denominator derives to zero.
// The input map is not modified.
func (c *Catalog) Derive(totals map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(totals)+len(c.defs))
	for k, v := range totals {
		out[k] = v
	}
	for _, d := range c.Qualities() {
		if den := out[d.Denominator]; den != 0 {
			out[d.Name] = out[d.Numerator] / den
		} else {
			out[d.Name] = 0
		}
	}
	return out
}
