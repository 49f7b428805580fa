// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// RankingsHandler handles ranking requests.
type RankingsHandler struct {
	deps     Ranker
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Ranker, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /v1/rankings/{metric}?matches=a,b&limit=N
// requests. With no matches parameter the ranking covers every ingested
// match; with no limit it returns the full table up to the configured cap.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"

	metric := mux.Vars(r)["metric"]
	if strings.TrimSpace(metric) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	ranked, err := h.deps.Rank(r.Context(), metric, matchFilter(r)...)
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	writeJSON(w, http.StatusOK, ranked)
}

// matchFilter parses the optional comma-separated matches query parameter.
func matchFilter(r *http.Request) []string {
	raw := r.URL.Query().Get("matches")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
