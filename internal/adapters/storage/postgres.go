// Package storage persists computed analytics snapshots to Postgres so
// rankings and contribution maps survive restarts and can feed reporting.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/pkg/logger"
)

// Connection pool limits.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// EntityTotalRow is one persisted metric value for an entity over a window.
type EntityTotalRow struct {
	TeamID    string
	ManagerID string
	Metric    string
	Raw       float64
	PerNinety float64
	Minutes   float64
	Matches   int
}

// ContributionRow is one player's share of an entity metric.
type ContributionRow struct {
	TeamID    string
	ManagerID string
	Metric    string
	PlayerID  string
	Share     float64
	Color     string
}

// ScoreRow is one entity's closeness score for a ranked metric.
type ScoreRow struct {
	TeamID    string
	ManagerID string
	Metric    string
	Rank      int
	Score     float64
}

// Postgres writes analytics snapshots through database/sql.
type Postgres struct {
	db     *sql.DB
	logger logger.Logger
}

// Open connects to Postgres, verifies the connection and configures the
// pool.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return &Postgres{
		db:     db,
		logger: logger.Get().Named("storage"),
	}, nil
}

// Migrate creates the snapshot tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entity_metric_totals (
			id BIGSERIAL PRIMARY KEY,
			team_id VARCHAR(100) NOT NULL,
			manager_id VARCHAR(100) NOT NULL,
			metric VARCHAR(100) NOT NULL,
			raw_value DOUBLE PRECISION NOT NULL,
			per_ninety DOUBLE PRECISION NOT NULL,
			minutes DOUBLE PRECISION NOT NULL,
			matches INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_metric_totals_entity ON entity_metric_totals(team_id, manager_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_metric_totals_metric ON entity_metric_totals(metric)`,

		`CREATE TABLE IF NOT EXISTS player_contributions (
			id BIGSERIAL PRIMARY KEY,
			team_id VARCHAR(100) NOT NULL,
			manager_id VARCHAR(100) NOT NULL,
			metric VARCHAR(100) NOT NULL,
			player_id VARCHAR(100) NOT NULL,
			share DOUBLE PRECISION NOT NULL,
			color VARCHAR(7) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_player_contributions_entity ON player_contributions(team_id, manager_id)`,
		`CREATE INDEX IF NOT EXISTS idx_player_contributions_player ON player_contributions(player_id)`,

		`CREATE TABLE IF NOT EXISTS topsis_scores (
			id BIGSERIAL PRIMARY KEY,
			team_id VARCHAR(100) NOT NULL,
			manager_id VARCHAR(100) NOT NULL,
			metric VARCHAR(100) NOT NULL,
			rank INTEGER NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topsis_scores_metric ON topsis_scores(metric)`,
	}

	for _, m := range migrations {
		if _, err := p.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	p.logger.Info(ctx, "database migrations completed")
	return nil
}

// SaveEntityTotals persists one window's metric values for a set of
// entities inside a single transaction.
func (p *Postgres) SaveEntityTotals(ctx context.Context, rows []EntityTotalRow) error {
	if len(rows) == 0 {
		return nil
	}
	return p.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO entity_metric_totals (
				team_id, manager_id, metric, raw_value, per_ninety, minutes, matches
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx, query,
				r.TeamID, r.ManagerID, r.Metric, r.Raw, r.PerNinety, r.Minutes, r.Matches,
			); err != nil {
				return fmt.Errorf("insert entity total: %w", err)
			}
		}
		return nil
	})
}

// SaveContributions persists player contribution shares for one entity
// metric.
func (p *Postgres) SaveContributions(ctx context.Context, rows []ContributionRow) error {
	if len(rows) == 0 {
		return nil
	}
	return p.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO player_contributions (
				team_id, manager_id, metric, player_id, share, color
			) VALUES ($1, $2, $3, $4, $5, $6)`
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx, query,
				r.TeamID, r.ManagerID, r.Metric, r.PlayerID, r.Share, r.Color,
			); err != nil {
				return fmt.Errorf("insert contribution: %w", err)
			}
		}
		return nil
	})
}

// SaveScores persists one ranking run.
func (p *Postgres) SaveScores(ctx context.Context, metric string, ranked []model.RankedEntity) error {
	if len(ranked) == 0 {
		return nil
	}
	return p.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO topsis_scores (
				team_id, manager_id, metric, rank, score
			) VALUES ($1, $2, $3, $4, $5)`
		for _, r := range ranked {
			if _, err := tx.ExecContext(ctx, query,
				r.Entity.TeamID, r.Entity.ManagerID, metric, r.Rank, r.Score,
			); err != nil {
				return fmt.Errorf("insert score: %w", err)
			}
		}
		return nil
	})
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			p.logger.Error(ctx, "transaction rollback failed", logger.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
