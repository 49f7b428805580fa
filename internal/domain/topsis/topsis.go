// Package topsis ranks entities by similarity to the ideal solution over
// two criteria: a volume sub-score and a quality sub-score.
//
// The computation is inherently two-pass: the ideal and negative-ideal
// points depend on the full comparison set, so scores are only finalized
// after every candidate has been collected. The comparison set varies per
// invocation and is always recomputed in full.
package topsis

import (
	"fmt"
	"math"
	"sort"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// degenerateScore is assigned when an entity is equidistant from both
// ideal points, which only happens in a single-entity comparison set.
const degenerateScore = 0.5

// Candidate is one entity's sub-scores entering a ranking round.
type Candidate struct {
	Entity  model.EntityID
	Volume  float64
	Quality float64
}

// weightedRow is one candidate after normalization and weighting.
type weightedRow struct {
	entity model.EntityID
	vol    float64
	qual   float64
}

// Ranker computes TOPSIS scores with fixed criterion weights.
type Ranker struct {
	weights catalog.Weights
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithWeights overrides the default 35/65 volume/quality weights.
func WithWeights(volume, quality float64) Option {
	return func(r *Ranker) {
		if volume > 0 && quality > 0 {
			r.weights = catalog.Weights{Volume: volume, Quality: quality}
		}
	}
}

// New creates a ranker with the default weights.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		weights: catalog.Weights{
			Volume:  catalog.DefaultVolumeWeight,
			Quality: catalog.DefaultQualityWeight,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores the comparison set with the ranker's own weights and returns
// it ordered best-first. lowerIsBetter inverts the ideal direction for
// metrics where smaller values win. Equal scores keep stable order by
// entity identifier. An empty comparison set is an error; a single-entity
// set is valid and scores the degenerate 0.5.
func (r *Ranker) Rank(candidates []Candidate, lowerIsBetter bool) ([]model.RankedEntity, error) {
	return r.RankWeighted(candidates, r.weights, lowerIsBetter)
}

// RankWeighted scores the comparison set with the criterion weights a
// composite definition declares, so a catalog-level weight override reaches
// the ranking. Unset weights fall back to the ranker's own.
func (r *Ranker) RankWeighted(candidates []Candidate, weights catalog.Weights, lowerIsBetter bool) ([]model.RankedEntity, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no entities to rank", ErrEmptyComparisonSet)
	}
	if weights.Volume <= 0 || weights.Quality <= 0 {
		weights = r.weights
	}

	// Vector-normalize each criterion column independently.
	volNorm := columnNorm(candidates, func(c Candidate) float64 { return c.Volume })
	qualNorm := columnNorm(candidates, func(c Candidate) float64 { return c.Quality })

	rows := make([]weightedRow, len(candidates))
	for i, c := range candidates {
		rows[i] = weightedRow{
			entity: c.Entity,
			vol:    safeDiv(c.Volume, volNorm) * weights.Volume,
			qual:   safeDiv(c.Quality, qualNorm) * weights.Quality,
		}
	}

	// Ideal and negative-ideal points over the weighted matrix. For
	// lower-is-better metrics the directions swap.
	idealVol, worstVol := minMax(rows, func(w weightedRow) float64 { return w.vol })
	idealQual, worstQual := minMax(rows, func(w weightedRow) float64 { return w.qual })
	if !lowerIsBetter {
		idealVol, worstVol = worstVol, idealVol
		idealQual, worstQual = worstQual, idealQual
	}

	scored := make([]model.RankedEntity, len(rows))
	for i, row := range rows {
		dIdeal := math.Hypot(row.vol-idealVol, row.qual-idealQual)
		dWorst := math.Hypot(row.vol-worstVol, row.qual-worstQual)
		score := degenerateScore
		if dIdeal+dWorst > 0 {
			score = dWorst / (dIdeal + dWorst)
		}
		scored[i] = model.RankedEntity{Entity: row.entity, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Entity.Less(scored[j].Entity)
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, nil
}

// columnNorm returns the Euclidean norm of one criterion column.
func columnNorm(candidates []Candidate, get func(Candidate) float64) float64 {
	sum := 0.0
	for _, c := range candidates {
		v := get(c)
		sum += v * v
	}
	return math.Sqrt(sum)
}

// minMax returns the (min, max) of one weighted column.
func minMax(rows []weightedRow, get func(weightedRow) float64) (float64, float64) {
	lo, hi := get(rows[0]), get(rows[0])
	for _, row := range rows[1:] {
		v := get(row)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
