package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/http/api"
	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/storage"
	app "github.com/alessandrofrai/serie-a-analytics/internal/app"
	"github.com/alessandrofrai/serie-a-analytics/internal/config"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/pkg/logger"
	"github.com/alessandrofrai/serie-a-analytics/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// we collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithRankingWeights(cfg.VolumeWeight, cfg.QualityWeight),
	}

	// Snapshot persistence is optional and enabled by configuration.
	if cfg.PostgresDSN != "" {
		sink, err := storage.Open(cfg.PostgresDSN)
		if err != nil {
			os.Stderr.WriteString("failed to open postgres: " + err.Error() + "\n")
			return
		}
		defer func() { _ = sink.Close() }()
		if err := sink.Migrate(ctx); err != nil {
			os.Stderr.WriteString("failed to migrate postgres: " + err.Error() + "\n")
			return
		}
		opts = append(opts, app.WithSink(storageSink{sink}))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	apiServer := api.NewServer(svc, cfg.MaxRankingLimit)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// storageSink adapts the Postgres store to the service sink contract.
type storageSink struct {
	pg *storage.Postgres
}

func (s storageSink) SaveEntityTotals(ctx context.Context, rows []app.EntityTotalRow) error {
	out := make([]storage.EntityTotalRow, len(rows))
	for i, r := range rows {
		out[i] = storage.EntityTotalRow(r)
	}
	return s.pg.SaveEntityTotals(ctx, out)
}

func (s storageSink) SaveContributions(ctx context.Context, rows []app.ContributionRow) error {
	out := make([]storage.ContributionRow, len(rows))
	for i, r := range rows {
		out[i] = storage.ContributionRow(r)
	}
	return s.pg.SaveContributions(ctx, out)
}

func (s storageSink) SaveScores(ctx context.Context, metric string, ranked []model.RankedEntity) error {
	return s.pg.SaveScores(ctx, metric, ranked)
}

// startSystemMetricsUpdater periodically refreshes process-level metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}

// startServiceMetricsUpdater periodically refreshes queue gauges from
// service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.GetStats()
			if queueLen, ok := stats["queueLength"].(int); ok {
				metrics.UpdateQueueSize(queueLen)
			}
			if entities, ok := stats["entities"].(int); ok {
				metrics.UpdateEntityCount(entities)
			}
			if matches, ok := stats["matches"].(int); ok {
				metrics.UpdateMatchCount(matches)
			}
		}
	}
}
