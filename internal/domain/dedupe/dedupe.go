// Package dedupe defines the interface for batch idempotency tracking.
// Aggregation merges by summation, so a resubmitted match batch would
// double-count every total; the deduper guarantees at-most-once folding.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen batch IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing a retry. Only
	// used when a batch was marked seen but failed to be queued.
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of tracked IDs.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring for
// bounded eviction. The map tracks each id's ring slot so Unrecord can
// clear it; -1 means unbounded tracking with no slot. A maxSize of zero or
// less means unbounded tracking.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	// Evict the oldest entry once the ring wraps.
	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Clear the ring slot too: a stale slot left behind would evict a
	// later re-record of the same id ahead of its turn.
	if slot, ok := d.seen[id]; ok && slot >= 0 {
		d.ring[slot] = ""
	}
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
