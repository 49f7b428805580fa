// Package repository holds the in-memory result store shared between the
// aggregation workers and the query side. Workers merge finished match
// partials in; queries take windowed snapshots out.
package repository

import (
	"context"
	"sync"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/aggregate"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/pkg/metrics"
)

// Store is the access contract the service layer depends on.
type Store interface {
	MergeResult(ctx context.Context, partial *aggregate.Result) error
	Window(ctx context.Context, matchIDs ...string) (*aggregate.Window, error)
	Matches(ctx context.Context) []string
	EntityCount(ctx context.Context) int
	MatchCount(ctx context.Context) int
}

// ResultStore guards the accumulated aggregation result behind a RWMutex.
// Merges take the write lock; windowed reads roll up under the read lock
// and return snapshots that never alias store-internal maps.
type ResultStore struct {
	mu         sync.RWMutex
	result     *aggregate.Result
	aggregator *aggregate.Aggregator
}

// NewResultStore creates an empty store that rolls up windows with the
// given aggregator.
func NewResultStore(aggregator *aggregate.Aggregator) *ResultStore {
	return &ResultStore{
		result:     aggregate.NewResult(),
		aggregator: aggregator,
	}
}

// MergeResult folds a finished match partial into the store.
func (s *ResultStore) MergeResult(_ context.Context, partial *aggregate.Result) error {
	s.mu.Lock()
	s.result.Merge(partial)
	entities := len(s.result.Entities())
	matches := len(s.result.Matches())
	s.mu.Unlock()

	metrics.UpdateEntityCount(entities)
	metrics.UpdateMatchCount(matches)
	return nil
}

// Window rolls up the store over the given matches; no matchIDs means the
// whole accumulated result.
func (s *ResultStore) Window(_ context.Context, matchIDs ...string) (*aggregate.Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aggregator.Window(s.result, matchIDs...)
}

// Matches lists every match the store has seen, sorted.
func (s *ResultStore) Matches(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Matches()
}

// EntityCount reports how many distinct (team, manager) entities the store
// holds.
func (s *ResultStore) EntityCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.result.Entities())
}

// MatchCount reports how many distinct matches the store holds.
func (s *ResultStore) MatchCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.result.Matches())
}

// Entities lists the store's entities sorted by (team, manager).
func (s *ResultStore) Entities(_ context.Context) []model.EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Entities()
}
