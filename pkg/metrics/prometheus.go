// Package metrics provides Prometheus metrics for the analytics pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the analytics service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics - the core of the batch flow
	eventsClassified   prometheus.Counter
	batchesAggregated  prometheus.Counter
	batchesDuplicate   prometheus.Counter
	aggregationLatency prometheus.Histogram
	rankingsComputed   prometheus.Counter
	rankingLatency     prometheus.Histogram

	// Store metrics
	entityCount prometheus.Gauge
	matchCount  prometheus.Gauge

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueErrors      prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking by component
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "seriea",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.eventsClassified = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_classified_total",
		Help:      "Total number of events annotated with a pitch zone.",
	})
	m.batchesAggregated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_aggregated_total",
		Help:      "Total number of match batches folded into the result store.",
	})
	m.batchesDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_duplicate_total",
		Help:      "Total number of duplicate match batches rejected on ingest.",
	})
	m.aggregationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_latency_ms",
		Help:      "Latency of aggregating one match batch in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.rankingsComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rankings_computed_total",
		Help:      "Total number of ranking computations performed.",
	})
	m.rankingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_latency_ms",
		Help:      "Latency of one ranking computation in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.entityCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "entity_count",
		Help:      "Number of team-manager entities tracked in the result store.",
	})
	m.matchCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "match_count",
		Help:      "Number of matches tracked in the result store.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Current number of queued match batches.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Configured capacity of the batch queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "utilization",
		Help:      "Queue fill ratio between 0 and 1.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueues_total",
		Help:      "Total number of successful enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "dequeues_total",
		Help:      "Total number of successful dequeues.",
	})
	m.queueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "errors_total",
		Help:      "Total number of enqueue failures.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "count",
		Help:      "Number of aggregation workers in the pool.",
	})
	m.workerProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "processing_latency_ms",
		Help:      "End-to-end batch processing latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "errors_total",
		Help:      "Total number of worker processing errors.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_component_total",
		Help:      "Errors by component and reason.",
	}, []string{"component", "reason"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated heap memory in bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines.",
	})

	return m
}

// GetRegistry returns the registry backing the global manager, for exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers operating on the global manager.

func RecordEventsClassified(n int) { globalManager.eventsClassified.Add(float64(n)) }
func RecordBatchAggregated()      { globalManager.batchesAggregated.Inc() }
func RecordBatchDuplicate()       { globalManager.batchesDuplicate.Inc() }

func RecordAggregationLatency(ms float64) { globalManager.aggregationLatency.Observe(ms) }
func RecordRankingComputed()              { globalManager.rankingsComputed.Inc() }
func RecordRankingLatency(ms float64)     { globalManager.rankingLatency.Observe(ms) }

func UpdateEntityCount(n int) { globalManager.entityCount.Set(float64(n)) }
func UpdateMatchCount(n int)  { globalManager.matchCount.Set(float64(n)) }

func UpdateQueueSize(n int)             { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)         { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64)  { globalManager.queueUtilization.Set(r) }
func RecordQueueEnqueue()               { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()               { globalManager.queueDequeues.Inc() }
func RecordQueueError()                 { globalManager.queueErrors.Inc() }
func UpdateWorkerCount(n int)           { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerLatency(ms float64)    { globalManager.workerProcessingLatency.Observe(ms) }
func RecordWorkerError()                { globalManager.workerErrors.Inc() }
func UpdateSystemMemoryUsage(b uint64)  { globalManager.systemMemoryUsage.Set(float64(b)) }
func UpdateSystemGoroutineCount(n int)  { globalManager.systemGoroutineCount.Set(float64(n)) }

// RecordHTTPRequest records one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of one HTTP request.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordErrorByComponent records an error attributed to a component.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}
