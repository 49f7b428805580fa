// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory batch queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of aggregation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the batch deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /v1/rankings/{metric}?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// VolumeWeight and QualityWeight set the criterion weights for
	// composite rankings. They must be positive and sum to 1.
	VolumeWeight  float64 `koanf:"volume_weight"`
	QualityWeight float64 `koanf:"quality_weight"`

	// PostgresDSN enables snapshot persistence when non-empty.
	PostgresDSN string `koanf:"postgres_dsn"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       10_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		MaxRankingLimit: 100,
		VolumeWeight:    catalog.DefaultVolumeWeight,
		QualityWeight:   catalog.DefaultQualityWeight,
	}
}
