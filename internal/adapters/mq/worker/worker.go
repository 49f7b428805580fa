// Package worker runs the aggregation workers that fold queued match
// batches into the result store. Each worker aggregates a whole partition
// (one batch) on its own, then merges the finished partial into the store;
// partials are never mutated concurrently, which is what the fold's
// associativity licenses.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/mq/queue"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/aggregate"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/pkg/logger"
	"github.com/alessandrofrai/serie-a-analytics/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Batch is what workers read off the queue.
type Batch = queue.Batch

// Aggregator folds one match partition into a partial result.
type Aggregator interface {
	AggregateMatch(matchID string, events []model.Event, appearances []model.Appearance) *aggregate.Result
}

// Merger folds a finished partial result into the shared store.
type Merger interface {
	MergeResult(ctx context.Context, partial *aggregate.Result) error
}

// Source defines how workers receive batches.
type Source interface {
	Dequeue(ctx context.Context) <-chan Batch
}

// Worker processes match batches until stopped.
type Worker struct {
	source     Source
	aggregator Aggregator
	merger     Merger
	name       string

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(source Source, aggregator Aggregator, merger Merger, opts ...Option) *Worker {
	w := &Worker{
		source:     source,
		aggregator: aggregator,
		merger:     merger,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	batches := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if err := w.processBatch(ctx, batch); err != nil {
				w.logger.Error(ctx, "error processing batch", logger.Error(err))
			}
		}
	}
}

// signalStop closes the shutdown channel exactly once, so Worker.Shutdown
// and Pool.Stop can overlap.
func (w *Worker) signalStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown gracefully stops the worker. Safe to call more than once.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.signalStop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processBatch aggregates one match partition and merges it into the store.
func (w *Worker) processBatch(ctx context.Context, batch Batch) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	aggStart := time.Now()
	partial := w.aggregator.AggregateMatch(batch.MatchID, batch.Events, batch.Appearances)
	metrics.RecordAggregationLatency(float64(time.Since(aggStart).Milliseconds()))
	metrics.RecordEventsClassified(len(batch.Events))

	if err := w.merger.MergeResult(ctx, partial); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "merge_error")
		w.logger.Error(ctx, "merge failed for batch",
			logger.String("batchID", batch.BatchID),
			logger.Error(err),
		)
		return fmt.Errorf("merge failed for batch %s: %w", batch.BatchID, err)
	}

	metrics.RecordBatchAggregated()
	w.logger.Debug(ctx, "batch aggregated",
		logger.String("batchID", batch.BatchID),
		logger.String("matchID", batch.MatchID),
		logger.Int("events", len(batch.Events)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers over the same source.
func NewPool(workerCount int, source Source, aggregator Aggregator, merger Merger) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(source, aggregator, merger, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers, waiting up to the shutdown timeout
// for in-flight batches to finish. Safe to call more than once and
// alongside per-worker Shutdown.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalStop()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the source and waits for every worker to drain.
func (p *Pool) Shutdown(ctx context.Context, source interface{ Close() error }) error {
	if source != nil {
		if err := source.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
