// Package service provides the core analytics service that implements the
// dependencies required by the HTTP API: batch ingestion, windowed metric
// queries, player contributions and entity rankings.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/mq/queue"
	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/mq/worker"
	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/repository"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/aggregate"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/cluster"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/contribution"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/dedupe"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/normalize"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/pitch"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/topsis"
	"github.com/alessandrofrai/serie-a-analytics/pkg/logger"
	"github.com/alessandrofrai/serie-a-analytics/pkg/metrics"
)

// Sink persists computed snapshots; the service works fine without one.
type Sink interface {
	SaveEntityTotals(ctx context.Context, rows []EntityTotalRow) error
	SaveContributions(ctx context.Context, rows []ContributionRow) error
	SaveScores(ctx context.Context, metric string, ranked []model.RankedEntity) error
}

// Row aliases re-export the storage row shapes so a Sink can be satisfied
// without this package importing a concrete store.
type (
	EntityTotalRow struct {
		TeamID    string
		ManagerID string
		Metric    string
		Raw       float64
		PerNinety float64
		Minutes   float64
		Matches   int
	}
	ContributionRow struct {
		TeamID    string
		ManagerID string
		Metric    string
		PlayerID  string
		Share     float64
		Color     string
	}
)

// Service implements the API dependencies for the analytics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.ResultStore
	deduper    dedupe.Deduper
	batchQueue *queue.InMemoryQueue
	pool       *worker.Pool
	catalog    *catalog.Catalog
	classifier *pitch.Classifier
	aggregator *aggregate.Aggregator
	normalizer *normalize.Normalizer
	ranker     *topsis.Ranker
	sink       Sink

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	volumeWeight  float64
	qualityWeight float64

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the batch deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCatalog replaces the stock metric catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *Service) {
		if cat != nil {
			s.catalog = cat
		}
	}
}

// WithRankingWeights sets the volume and quality criterion weights the
// stock catalog attaches to its composite metrics. A catalog supplied via
// WithCatalog keeps the weights its own definitions declare.
func WithRankingWeights(volume, quality float64) Option {
	return func(s *Service) {
		if volume > 0 && quality > 0 {
			s.volumeWeight = volume
			s.qualityWeight = quality
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSink attaches a persistence sink for computed snapshots.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// Default sizing constants.
const (
	defaultQueueSize    = 10000
	defaultDedupeSize   = 50000
	shutdownGracePeriod = 10 * time.Second
	workerCPUMultiplier = 2
)

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * workerCPUMultiplier,
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		volumeWeight:  catalog.DefaultVolumeWeight,
		qualityWeight: catalog.DefaultQualityWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.catalog == nil {
		cat, err := catalog.Default(catalog.WithWeights(s.volumeWeight, s.qualityWeight))
		if err != nil {
			return fmt.Errorf("load metric catalog: %w", err)
		}
		s.catalog = cat
	}

	s.classifier = pitch.New()
	s.aggregator = aggregate.New(s.catalog, s.classifier)
	s.normalizer = normalize.New(s.catalog)
	s.ranker = topsis.New()
	s.store = repository.NewResultStore(s.aggregator)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.batchQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	workerCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pool = worker.NewPool(s.workerCount, s.batchQueue, s.aggregator, s.store)
	s.pool.Start(workerCtx)

	metrics.UpdateWorkerCount(s.workerCount)
	metrics.UpdateQueueCapacity(s.queueSize)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service, draining in-flight batches.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := s.pool.Shutdown(ctx, s.batchQueue); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// IngestBatch accepts a match batch for asynchronous aggregation. It
// returns the effective batch id (generated when the caller sent none) and
// whether the id was already seen. A full queue fails with ErrQueueFull
// after rolling back the dedupe record, so the client can retry.
func (s *Service) IngestBatch(ctx context.Context, batch model.MatchBatch) (string, bool, error) {
	if err := s.ready(); err != nil {
		return "", false, err
	}

	if batch.BatchID == "" {
		batch.BatchID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, batch.BatchID) {
		metrics.RecordBatchDuplicate()
		s.logger.Debug(ctx, "duplicate batch skipped",
			logger.String("batchID", batch.BatchID),
			logger.String("matchID", batch.MatchID),
		)
		return batch.BatchID, true, nil
	}

	if ok := s.batchQueue.Enqueue(ctx, batch); !ok {
		// Roll back the seen record so a retry is not dropped as a
		// duplicate.
		s.deduper.Unrecord(ctx, batch.BatchID)
		return batch.BatchID, false, fmt.Errorf("batch %s: %w", batch.BatchID, ErrQueueFull)
	}
	return batch.BatchID, false, nil
}

// ready reports whether Start has run. Queries on an unstarted service
// fail with ErrNotStarted; the components they touch are only built inside
// Start.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Rank computes the ranking for one metric over a match window. Composite
// metrics rank by TOPSIS closeness over their per-90 volume and quality
// criteria, weighted as the definition declares; plain metrics rank by
// value directly.
func (s *Service) Rank(ctx context.Context, metric string, matchIDs ...string) ([]model.RankedEntity, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	def, ok := s.catalog.Lookup(metric)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownMetric, metric)
	}

	w, err := s.store.Window(ctx, matchIDs...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var ranked []model.RankedEntity
	if def.Class == catalog.ClassComposite {
		ranked, err = s.rankComposite(def, w)
	} else {
		ranked, err = s.rankPlain(def, w)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordRankingComputed()
	metrics.RecordRankingLatency(float64(time.Since(start).Milliseconds()))
	return ranked, nil
}

// rankComposite builds one TOPSIS candidate per entity: the per-90 volume
// criterion and the dimensionless quality criterion.
func (s *Service) rankComposite(def catalog.Definition, w *aggregate.Window) ([]model.RankedEntity, error) {
	entities := w.Entities()
	candidates := make([]topsis.Candidate, 0, len(entities))
	for _, entity := range entities {
		normalized, err := s.normalizer.Apply(w.Totals[entity], w.Minutes[entity])
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", entity, err)
		}
		derived := s.catalog.Derive(normalized)
		candidates = append(candidates, topsis.Candidate{
			Entity:  entity,
			Volume:  derived[def.VolumeRef],
			Quality: derived[def.QualityRef],
		})
	}
	return s.ranker.RankWeighted(candidates, def.Weights, def.LowerIsBetter)
}

// rankPlain orders entities by the metric value itself: per-90 for
// foldable metrics, as-is for ratios.
func (s *Service) rankPlain(def catalog.Definition, w *aggregate.Window) ([]model.RankedEntity, error) {
	entities := w.Entities()
	if len(entities) == 0 {
		return nil, fmt.Errorf("metric %s: %w", def.Name, topsis.ErrEmptyComparisonSet)
	}

	ranked := make([]model.RankedEntity, 0, len(entities))
	for _, entity := range entities {
		normalized, err := s.normalizer.Apply(w.Totals[entity], w.Minutes[entity])
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", entity, err)
		}
		derived := s.catalog.Derive(normalized)
		ranked = append(ranked, model.RankedEntity{
			Entity: entity,
			Score:  derived[def.Name],
		})
	}

	better := func(a, b model.RankedEntity) bool {
		if a.Score != b.Score {
			if def.LowerIsBetter {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		return a.Entity.Less(b.Entity)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return better(ranked[i], ranked[j]) })
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// EntityMetrics returns every plain metric for one entity over a match
// window: the raw total plus, for foldable metrics, its per-90 value.
func (s *Service) EntityMetrics(ctx context.Context, entity model.EntityID, matchIDs ...string) ([]model.MetricValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	w, err := s.store.Window(ctx, matchIDs...)
	if err != nil {
		return nil, err
	}
	minutes, ok := w.Minutes[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrEntityNotFound, entity)
	}

	totals := w.Totals[entity]
	derived := s.catalog.Derive(totals)
	normalized, err := s.normalizer.Apply(derived, minutes)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", entity, err)
	}

	var values []model.MetricValue
	for _, def := range s.catalog.Definitions() {
		if def.Class == catalog.ClassComposite {
			continue
		}
		mv := model.MetricValue{
			Name:      def.Name,
			Raw:       derived[def.Name],
			PerNinety: def.PerNinety,
		}
		if def.PerNinety {
			mv.P90 = normalized[def.Name]
		}
		values = append(values, mv)
	}
	return values, nil
}

// Contributions returns each player's share of one entity volume metric,
// largest first, with display colors spanning the grey-to-red scale. A
// zero entity total yields an empty list.
func (s *Service) Contributions(ctx context.Context, entity model.EntityID, metric string, matchIDs ...string) ([]model.PlayerShare, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	def, ok := s.catalog.Lookup(metric)
	if !ok || def.Class != catalog.ClassVolume {
		return nil, fmt.Errorf("%w: %s has no player breakdown", catalog.ErrUnknownMetric, metric)
	}

	w, err := s.store.Window(ctx, matchIDs...)
	if err != nil {
		return nil, err
	}
	if _, ok := w.Minutes[entity]; !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrEntityNotFound, entity)
	}

	shares := contribution.Shares(w.Totals[entity][metric], w.Players[entity][metric])
	ranked := contribution.Ranked(shares)
	if len(ranked) == 0 {
		return []model.PlayerShare{}, nil
	}

	highest := ranked[0].Share
	lowest := ranked[len(ranked)-1].Share
	out := make([]model.PlayerShare, 0, len(ranked))
	for _, sh := range ranked {
		out = append(out, model.PlayerShare{
			PlayerID: sh.PlayerID,
			Share:    sh.Share,
			Color:    contribution.Color(sh.Share, lowest, highest),
		})
	}
	return out, nil
}

// styleFeatures are the per-90 volume metrics characterizing how an entity
// plays, spanning possession, chance creation, buildup and defending.
var styleFeatures = []string{
	"passes_attempted",
	"passes_final_third_attempted",
	"crosses_attempted",
	"buildup_passes",
	"carries_count",
	"carry_progress_distance",
	"box_touches",
	"shots_total",
	"xg_total",
	"tackles_attempted",
	"duels_total",
	"interceptions",
	"ball_recoveries",
}

// PlayingStyles groups every entity in the window into playing styles by
// K-means over its standardized per-90 style metrics. A k below two uses
// the stock group count.
func (s *Service) PlayingStyles(ctx context.Context, k int, matchIDs ...string) (*cluster.Result, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	w, err := s.store.Window(ctx, matchIDs...)
	if err != nil {
		return nil, err
	}

	entities := w.Entities()
	points := make([]cluster.Point, 0, len(entities))
	for _, entity := range entities {
		normalized, err := s.normalizer.Apply(w.Totals[entity], w.Minutes[entity])
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", entity, err)
		}
		features := make([]float64, len(styleFeatures))
		for i, name := range styleFeatures {
			features[i] = normalized[name]
		}
		points = append(points, cluster.Point{Entity: entity, Features: features})
	}

	opts := []cluster.Option{}
	if k > 1 {
		opts = append(opts, cluster.WithK(k))
	}
	return cluster.New(styleFeatures, opts...).Fit(points)
}

// Persist writes the current window's totals, composite rankings and
// player contributions to the configured sink. Without a sink it is a
// no-op.
func (s *Service) Persist(ctx context.Context, matchIDs ...string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.sink == nil {
		return nil
	}

	w, err := s.store.Window(ctx, matchIDs...)
	if err != nil {
		return err
	}
	matches := len(w.MatchIDs)

	var totals []EntityTotalRow
	var contributions []ContributionRow
	for _, entity := range w.Entities() {
		minutes := w.Minutes[entity]
		derived := s.catalog.Derive(w.Totals[entity])
		normalized, err := s.normalizer.Apply(derived, minutes)
		if err != nil {
			return fmt.Errorf("entity %s: %w", entity, err)
		}
		for _, def := range s.catalog.Definitions() {
			if def.Class == catalog.ClassComposite {
				continue
			}
			row := EntityTotalRow{
				TeamID:    entity.TeamID,
				ManagerID: entity.ManagerID,
				Metric:    def.Name,
				Raw:       derived[def.Name],
				Minutes:   minutes,
				Matches:   matches,
			}
			if def.PerNinety {
				row.PerNinety = normalized[def.Name]
			}
			totals = append(totals, row)

			if def.Class != catalog.ClassVolume || derived[def.Name] == 0 {
				continue
			}
			shares, err := s.Contributions(ctx, entity, def.Name, matchIDs...)
			if err != nil {
				return err
			}
			for _, sh := range shares {
				contributions = append(contributions, ContributionRow{
					TeamID:    entity.TeamID,
					ManagerID: entity.ManagerID,
					Metric:    def.Name,
					PlayerID:  sh.PlayerID,
					Share:     sh.Share,
					Color:     sh.Color,
				})
			}
		}
	}

	if err := s.sink.SaveEntityTotals(ctx, totals); err != nil {
		return err
	}
	if err := s.sink.SaveContributions(ctx, contributions); err != nil {
		return err
	}

	for _, def := range s.catalog.Composites() {
		ranked, err := s.rankComposite(def, w)
		if err != nil {
			return err
		}
		if err := s.sink.SaveScores(ctx, def.Name, ranked); err != nil {
			return err
		}
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.batchQueue.Len(ctx)
		stats["matches"] = s.store.MatchCount(ctx)
		stats["entities"] = s.store.EntityCount(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}
