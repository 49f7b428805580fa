// Package cluster groups entities into playing styles with K-means over
// standardized per-90 metric vectors. Features are z-scored per column and
// clipped before clustering, so each metric contributes on the same scale
// regardless of its unit.
//
// Seeding is deterministic: the same comparison set always produces the
// same grouping, which keeps style labels stable across identical windows.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

const (
	// DefaultK balances separation against interpretability for a league
	// of twenty-odd entities.
	DefaultK = 4

	defaultRestarts      = 10
	defaultMaxIterations = 300
	defaultSeed          = 42

	// outlierSigma clips standardized features so one runaway match
	// cannot dominate the distance metric.
	outlierSigma = 3.0

	// traitThreshold marks a centroid feature as a style trait once it
	// sits more than half a standard deviation from the league mean.
	traitThreshold = 0.5

	// maxLabelTraits caps how many traits make it into a group label.
	maxLabelTraits = 2
)

// Point is one entity's feature vector entering a clustering round. The
// vector order must match the clusterer's feature list.
type Point struct {
	Entity   model.EntityID
	Features []float64
}

// Member is one entity inside a style group, with its own silhouette
// coefficient as a fit measure.
type Member struct {
	Entity     model.EntityID `json:"entity"`
	Silhouette float64        `json:"silhouette"`
}

// Group is one identified playing style.
type Group struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Traits   []string  `json:"traits"`
	Centroid []float64 `json:"centroid"`
	Members  []Member  `json:"members"`
}

// Result is a full clustering outcome over one comparison set.
type Result struct {
	K          int      `json:"k"`
	Features   []string `json:"features"`
	Silhouette float64  `json:"silhouette"`
	Groups     []Group  `json:"groups"`
}

// Clusterer runs K-means over a fixed feature list.
type Clusterer struct {
	features      []string
	k             int
	restarts      int
	maxIterations int
	seed          int64
}

// Option applies a configuration option to the Clusterer.
type Option func(*Clusterer)

// WithK sets the number of style groups.
func WithK(k int) Option {
	return func(c *Clusterer) {
		if k > 1 {
			c.k = k
		}
	}
}

// WithSeed sets the seed for centroid initialization.
func WithSeed(seed int64) Option {
	return func(c *Clusterer) {
		c.seed = seed
	}
}

// WithRestarts sets how many seedings compete; the lowest-inertia run wins.
func WithRestarts(n int) Option {
	return func(c *Clusterer) {
		if n > 0 {
			c.restarts = n
		}
	}
}

// New creates a clusterer over the named features.
func New(features []string, opts ...Option) *Clusterer {
	c := &Clusterer{
		features:      append([]string(nil), features...),
		k:             DefaultK,
		restarts:      defaultRestarts,
		maxIterations: defaultMaxIterations,
		seed:          defaultSeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit clusters the comparison set into k playing styles. The set must hold
// at least k points; a point whose vector does not match the feature list
// rejects the whole round.
func (c *Clusterer) Fit(points []Point) (*Result, error) {
	if err := c.checkInput(points, c.k); err != nil {
		return nil, err
	}

	x := standardize(points)
	labels, centroids := c.bestRun(x, c.k)
	sil := silhouettes(x, labels, c.k)

	result := &Result{
		K:        c.k,
		Features: append([]string(nil), c.features...),
		Groups:   make([]Group, c.k),
	}
	for id := 0; id < c.k; id++ {
		g := Group{ID: id, Centroid: centroids[id]}
		for i, l := range labels {
			if l != id {
				continue
			}
			g.Members = append(g.Members, Member{Entity: points[i].Entity, Silhouette: sil[i]})
		}
		sort.Slice(g.Members, func(a, b int) bool {
			return g.Members[a].Entity.Less(g.Members[b].Entity)
		})
		g.Traits = c.traits(centroids[id])
		g.Label = label(g.Traits)
		result.Groups[id] = g
	}
	for _, s := range sil {
		result.Silhouette += s
	}
	result.Silhouette /= float64(len(sil))

	return result, nil
}

// OptimalK fits every k in [lo, hi] and returns the one with the highest
// mean silhouette.
func (c *Clusterer) OptimalK(points []Point, lo, hi int) (int, error) {
	if lo < 2 {
		lo = 2
	}
	if hi > len(points) {
		hi = len(points)
	}
	if hi < lo {
		return 0, fmt.Errorf("%w: %d entities cannot split into %d groups", ErrInsufficientData, len(points), lo)
	}
	if err := c.checkInput(points, lo); err != nil {
		return 0, err
	}

	x := standardize(points)
	bestK, bestSil := 0, math.Inf(-1)
	for k := lo; k <= hi; k++ {
		labels, _ := c.bestRun(x, k)
		sil := 0.0
		for _, s := range silhouettes(x, labels, k) {
			sil += s
		}
		sil /= float64(len(x))
		if sil > bestSil {
			bestK, bestSil = k, sil
		}
	}
	return bestK, nil
}

func (c *Clusterer) checkInput(points []Point, k int) error {
	if len(points) < k {
		return fmt.Errorf("%w: %d entities for %d groups", ErrInsufficientData, len(points), k)
	}
	if len(points) < 2 {
		return fmt.Errorf("%w: need at least two entities", ErrInsufficientData)
	}
	for _, p := range points {
		if len(p.Features) != len(c.features) {
			return fmt.Errorf("%w: entity %s has %d features, want %d",
				ErrFeatureMismatch, p.Entity, len(p.Features), len(c.features))
		}
	}
	return nil
}

// bestRun runs Lloyd iterations from several seedings and keeps the
// lowest-inertia outcome.
func (c *Clusterer) bestRun(x [][]float64, k int) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(c.seed))

	var bestLabels []int
	var bestCentroids [][]float64
	bestInertia := math.Inf(1)
	for run := 0; run < c.restarts; run++ {
		centroids := seedCentroids(x, k, rng)
		labels := c.lloyd(x, centroids)
		if in := inertia(x, labels, centroids); in < bestInertia {
			bestInertia = in
			bestLabels = labels
			bestCentroids = centroids
		}
	}
	return bestLabels, bestCentroids
}

// lloyd alternates assignment and centroid update until stable. An emptied
// cluster is reseeded with the point farthest from its centroid.
func (c *Clusterer) lloyd(x [][]float64, centroids [][]float64) []int {
	dims := len(x[0])
	labels := make([]int, len(x))
	for iter := 0; iter < c.maxIterations; iter++ {
		changed := false
		for i, p := range x {
			best := nearest(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		counts := make([]int, len(centroids))
		for id := range centroids {
			centroids[id] = make([]float64, dims)
		}
		for i, p := range x {
			counts[labels[i]]++
			for d, v := range p {
				centroids[labels[i]][d] += v
			}
		}
		for id := range centroids {
			if counts[id] == 0 {
				far := farthest(x, labels, centroids)
				copy(centroids[id], x[far])
				labels[far] = id
				counts[id] = 1
				continue
			}
			for d := range centroids[id] {
				centroids[id][d] /= float64(counts[id])
			}
		}
	}
	return labels
}

// traits names the centroid features sitting notably above or below the
// league mean, strongest first.
func (c *Clusterer) traits(centroid []float64) []string {
	type scored struct {
		name  string
		value float64
	}
	var marked []scored
	for d, v := range centroid {
		if math.Abs(v) > traitThreshold {
			marked = append(marked, scored{name: c.features[d], value: v})
		}
	}
	sort.Slice(marked, func(i, j int) bool {
		if math.Abs(marked[i].value) != math.Abs(marked[j].value) {
			return math.Abs(marked[i].value) > math.Abs(marked[j].value)
		}
		return marked[i].name < marked[j].name
	})

	out := make([]string, 0, len(marked))
	for _, m := range marked {
		direction := "high"
		if m.value < 0 {
			direction = "low"
		}
		out = append(out, direction+" "+m.name)
	}
	return out
}

// label summarizes a group by its strongest traits.
func label(traits []string) string {
	if len(traits) == 0 {
		return "balanced"
	}
	if len(traits) > maxLabelTraits {
		traits = traits[:maxLabelTraits]
	}
	return strings.Join(traits, ", ")
}

// standardize z-scores each feature column and clips outliers. A constant
// column standardizes to zero.
func standardize(points []Point) [][]float64 {
	n := len(points)
	dims := len(points[0].Features)

	mean := make([]float64, dims)
	for _, p := range points {
		for d, v := range p.Features {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}

	std := make([]float64, dims)
	for _, p := range points {
		for d, v := range p.Features {
			diff := v - mean[d]
			std[d] += diff * diff
		}
	}
	for d := range std {
		std[d] = math.Sqrt(std[d] / float64(n))
	}

	x := make([][]float64, n)
	for i, p := range points {
		row := make([]float64, dims)
		for d, v := range p.Features {
			if std[d] == 0 {
				continue
			}
			z := (v - mean[d]) / std[d]
			row[d] = math.Max(-outlierSigma, math.Min(outlierSigma, z))
		}
		x[i] = row
	}
	return x
}

// seedCentroids spreads the initial centroids with k-means++ weighting:
// each next centroid is drawn proportionally to squared distance from the
// nearest one already chosen.
func seedCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), x[rng.Intn(len(x))]...))

	for len(centroids) < k {
		weights := make([]float64, len(x))
		total := 0.0
		for i, p := range x {
			d := distance(p, centroids[nearest(p, centroids)])
			weights[i] = d * d
			total += weights[i]
		}
		if total == 0 {
			// Every remaining point coincides with a centroid; pick the
			// first point not already chosen.
			centroids = append(centroids, append([]float64(nil), x[len(centroids)%len(x)]...))
			continue
		}
		target := rng.Float64() * total
		for i, w := range weights {
			target -= w
			if target <= 0 || i == len(x)-1 {
				centroids = append(centroids, append([]float64(nil), x[i]...))
				break
			}
		}
	}
	return centroids
}

// silhouettes computes the per-point silhouette coefficient: cohesion
// against the own cluster versus separation from the nearest other one. A
// point alone in its cluster scores zero.
func silhouettes(x [][]float64, labels []int, k int) []float64 {
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	out := make([]float64, len(x))
	for i, p := range x {
		sums := make([]float64, k)
		for j, q := range x {
			if i == j {
				continue
			}
			sums[labels[j]] += distance(p, q)
		}

		own := labels[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for id := 0; id < k; id++ {
			if id == own || counts[id] == 0 {
				continue
			}
			if mean := sums[id] / float64(counts[id]); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if m := math.Max(a, b); m > 0 {
			out[i] = (b - a) / m
		}
	}
	return out
}

func inertia(x [][]float64, labels []int, centroids [][]float64) float64 {
	total := 0.0
	for i, p := range x {
		d := distance(p, centroids[labels[i]])
		total += d * d
	}
	return total
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for id, c := range centroids {
		if d := distance(p, c); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// farthest returns the index of the point farthest from its own centroid.
func farthest(x [][]float64, labels []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, p := range x {
		if d := distance(p, centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func distance(a, b []float64) float64 {
	sum := 0.0
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
