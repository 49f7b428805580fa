package aggregate

import (
	"fmt"
	"sort"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// Window is the roll-up of a result over one match-set. Totals and minutes
// are computed from the same matches in a single pass, which is what keeps
// p90 values honest: a metric total can never pair with minutes from a
// different match-set.
type Window struct {
	MatchIDs []string
	Totals   map[model.EntityID]map[string]float64
	Players  map[model.EntityID]map[string]map[string]float64
	Minutes  map[model.EntityID]float64
}

// Window rolls r up over the given matches; with no match ids it covers
// every match in r. Entities with minutes but no events receive explicit
// zero totals for every volume metric. Entities with event totals but no
// recorded minutes in a match are excluded from that match's roll-up. A
// requested match carrying event totals but no appearance data at all is a
// mismatched aggregation window and fails.
func (a *Aggregator) Window(r *Result, matchIDs ...string) (*Window, error) {
	if len(matchIDs) == 0 {
		matchIDs = r.Matches()
	}
	requested := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		requested[id] = true
	}

	// A match with events but no appearances means the minutes feed and
	// the event feed disagree about the match-set.
	hasMinutes := make(map[string]bool)
	for key := range r.minutes {
		hasMinutes[key.MatchID] = true
	}
	for key := range r.totals {
		if requested[key.MatchID] && !hasMinutes[key.MatchID] {
			return nil, fmt.Errorf("%w: match %s has event totals but no appearance data", ErrMismatchedWindow, key.MatchID)
		}
	}

	w := &Window{
		MatchIDs: append([]string(nil), matchIDs...),
		Totals:   make(map[model.EntityID]map[string]float64),
		Players:  make(map[model.EntityID]map[string]map[string]float64),
		Minutes:  make(map[model.EntityID]float64),
	}

	// Minutes ledger first: participation is established by appearances,
	// not by events.
	for key, minutes := range r.minutes {
		if !requested[key.MatchID] {
			continue
		}
		w.Minutes[key.Entity] += minutes
		if _, ok := w.Totals[key.Entity]; !ok {
			w.Totals[key.Entity] = a.zeroTotals()
			w.Players[key.Entity] = make(map[string]map[string]float64)
		}
	}

	for key, m := range r.totals {
		if !requested[key.MatchID] {
			continue
		}
		if r.minutes[key] <= 0 {
			// No recorded minutes for this entity in this match:
			// excluded entirely from the match's results.
			continue
		}
		totals := w.Totals[key.Entity]
		for metric, v := range m {
			totals[metric] += v
		}
		byMetric := w.Players[key.Entity]
		for metric, byPlayer := range r.players[key] {
			dst, ok := byMetric[metric]
			if !ok {
				dst = make(map[string]float64)
				byMetric[metric] = dst
			}
			for playerID, v := range byPlayer {
				dst[playerID] += v
			}
		}
	}

	return w, nil
}

// zeroTotals returns a totals map with an explicit zero for every volume
// metric, so participating entities never have absent entries.
func (a *Aggregator) zeroTotals() map[string]float64 {
	defs := a.catalog.Volumes()
	out := make(map[string]float64, len(defs))
	for _, d := range defs {
		out[d.Name] = 0
	}
	return out
}

// Entities returns the window's entities in stable identifier order.
func (w *Window) Entities() []model.EntityID {
	out := make([]model.EntityID, 0, len(w.Minutes))
	for e := range w.Minutes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
