// Package aggregate folds classified match events into per-entity,
// per-match metric totals. The fold is associative and commutative over
// events, so the event stream may be partitioned by match and partial
// results merged by summation without changing the outcome.
package aggregate

import (
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/pitch"
)

// Key identifies one entity in one match.
type Key struct {
	Entity  model.EntityID
	MatchID string
}

// Aggregator folds events through the catalog's volume definitions.
type Aggregator struct {
	catalog    *catalog.Catalog
	classifier *pitch.Classifier
}

// New creates an aggregator bound to a catalog and a zone classifier.
func New(cat *catalog.Catalog, classifier *pitch.Classifier) *Aggregator {
	return &Aggregator{
		catalog:    cat,
		classifier: classifier,
	}
}

// Catalog returns the catalog the aggregator folds with.
func (a *Aggregator) Catalog() *catalog.Catalog { return a.catalog }

// AggregateMatch produces the partial result of one match: entity and
// player totals folded from events, and the minutes ledger from
// appearances. Events are zone-annotated before folding. Records without a
// match id inherit the batch's.
func (a *Aggregator) AggregateMatch(matchID string, events []model.Event, appearances []model.Appearance) *Result {
	r := NewResult()

	for _, app := range appearances {
		if app.Minutes <= 0 {
			continue
		}
		if app.MatchID == "" {
			app.MatchID = matchID
		}
		r.addMinutes(Key{Entity: app.Entity(), MatchID: app.MatchID}, app.Minutes)
	}

	for _, e := range events {
		if e.MatchID == "" {
			e.MatchID = matchID
		}
		e.Zone = a.classifier.Classify(e.X, e.Y)
		e.EndZone = a.classifier.Classify(e.EndX, e.EndY)

		key := Key{Entity: e.Entity(), MatchID: e.MatchID}
		for _, def := range a.catalog.Volumes() {
			if !def.Match(e) {
				continue
			}
			v := def.Value(e)
			r.addTotal(key, def.Name, v)
			r.addPlayerTotal(key, def.Name, e.PlayerID, v)
		}
	}

	return r
}
