package aggregate

import (
	"sort"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// Result accumulates per-(entity, match) totals, per-player breakdowns, and
// the minutes ledger. Results merge by summation; a Result is not safe for
// concurrent mutation, so partitions must be merged after each finishes.
type Result struct {
	totals  map[Key]map[string]float64
	players map[Key]map[string]map[string]float64
	minutes map[Key]float64
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{
		totals:  make(map[Key]map[string]float64),
		players: make(map[Key]map[string]map[string]float64),
		minutes: make(map[Key]float64),
	}
}

func (r *Result) addTotal(key Key, metric string, v float64) {
	m, ok := r.totals[key]
	if !ok {
		m = make(map[string]float64)
		r.totals[key] = m
	}
	m[metric] += v
}

func (r *Result) addPlayerTotal(key Key, metric, playerID string, v float64) {
	byMetric, ok := r.players[key]
	if !ok {
		byMetric = make(map[string]map[string]float64)
		r.players[key] = byMetric
	}
	byPlayer, ok := byMetric[metric]
	if !ok {
		byPlayer = make(map[string]float64)
		byMetric[metric] = byPlayer
	}
	byPlayer[playerID] += v
}

func (r *Result) addMinutes(key Key, minutes float64) {
	r.minutes[key] += minutes
}

// Merge folds other into r by summation. Merging the per-match partials of
// a partitioned stream yields the same result as a single-pass aggregation.
func (r *Result) Merge(other *Result) {
	for key, m := range other.totals {
		for metric, v := range m {
			r.addTotal(key, metric, v)
		}
	}
	for key, byMetric := range other.players {
		for metric, byPlayer := range byMetric {
			for playerID, v := range byPlayer {
				r.addPlayerTotal(key, metric, playerID, v)
			}
		}
	}
	for key, minutes := range other.minutes {
		r.addMinutes(key, minutes)
	}
}

// Clone returns a deep copy, used by stores to hand out snapshots.
func (r *Result) Clone() *Result {
	out := NewResult()
	out.Merge(r)
	return out
}

// Matches returns the sorted set of match ids present in totals or minutes.
func (r *Result) Matches() []string {
	seen := make(map[string]bool)
	for key := range r.totals {
		seen[key.MatchID] = true
	}
	for key := range r.minutes {
		seen[key.MatchID] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Entities returns the sorted set of entities present in totals or minutes.
func (r *Result) Entities() []model.EntityID {
	seen := make(map[model.EntityID]bool)
	for key := range r.totals {
		seen[key.Entity] = true
	}
	for key := range r.minutes {
		seen[key.Entity] = true
	}
	out := make([]model.EntityID, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Minutes returns the minutes an entity played in a match, or zero.
func (r *Result) Minutes(entity model.EntityID, matchID string) float64 {
	return r.minutes[Key{Entity: entity, MatchID: matchID}]
}

// Total returns an entity's raw total for one metric in one match.
func (r *Result) Total(entity model.EntityID, matchID, metric string) float64 {
	return r.totals[Key{Entity: entity, MatchID: matchID}][metric]
}
