// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/pkg/metrics"
)

// Dependencies bundles everything the HTTP handlers need. Using an
// interface bundle keeps the handler layer loosely coupled to the service
// implementation.
type Dependencies interface {
	Ingestor
	Ranker
	EntityReader
	StyleReader
	StatsProvider
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	ingestHandler   *IngestHandler
	rankingsHandler *RankingsHandler
	entityHandler   *EntityHandler
	stylesHandler   *StylesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		ingestHandler:   NewIngestHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxRankingLimit),
		entityHandler:   NewEntityHandler(deps),
		stylesHandler:   NewStylesHandler(deps),
	}
}

// Router builds the full route table with CORS applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/matches/{match_id}/events",
		MetricsMiddleware(s.ingestHandler.HandlePostBatch, "ingest")).Methods(http.MethodPost)
	v1.HandleFunc("/appearances",
		MetricsMiddleware(s.ingestHandler.HandlePostAppearances, "appearances")).Methods(http.MethodPost)
	v1.HandleFunc("/rankings/{metric}",
		MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings")).Methods(http.MethodGet)
	v1.HandleFunc("/entities/{team_id}/{manager_id}/metrics",
		MetricsMiddleware(s.entityHandler.HandleGetMetrics, "entity_metrics")).Methods(http.MethodGet)
	v1.HandleFunc("/entities/{team_id}/{manager_id}/contributions/{metric}",
		MetricsMiddleware(s.entityHandler.HandleGetContributions, "entity_contributions")).Methods(http.MethodGet)
	v1.HandleFunc("/styles",
		MetricsMiddleware(s.stylesHandler.HandleGetStyles, "styles")).Methods(http.MethodGet)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// Ingestor accepts a match batch for asynchronous aggregation.
type Ingestor interface {
	// IngestBatch returns the effective batch id and duplicate=true when
	// that id was already seen. A full queue fails with a
	// backpressure-kinded error.
	IngestBatch(ctx context.Context, batch model.MatchBatch) (batchID string, duplicate bool, err error)
}

// Ranker computes entity rankings for one metric over a match window.
type Ranker interface {
	Rank(ctx context.Context, metric string, matchIDs ...string) ([]model.RankedEntity, error)
}

// EntityReader exposes per-entity metric values and player contributions.
type EntityReader interface {
	EntityMetrics(ctx context.Context, entity model.EntityID, matchIDs ...string) ([]model.MetricValue, error)
	Contributions(ctx context.Context, entity model.EntityID, metric string, matchIDs ...string) ([]model.PlayerShare, error)
}

type ackResponse struct {
	Status    string `json:"status"`
	BatchID   string `json:"batch_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
