// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// EntityHandler handles per-entity metric and contribution requests.
type EntityHandler struct {
	deps EntityReader
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(deps EntityReader) *EntityHandler {
	return &EntityHandler{deps: deps}
}

// HandleGetMetrics handles GET /v1/entities/{team_id}/{manager_id}/metrics
// requests.
func (h *EntityHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_entity_metrics"

	entity, ok := entityFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	values, err := h.deps.EntityMetrics(r.Context(), entity, matchFilter(r)...)
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// HandleGetContributions handles
// GET /v1/entities/{team_id}/{manager_id}/contributions/{metric} requests.
func (h *EntityHandler) HandleGetContributions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_entity_contributions"

	entity, ok := entityFromPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	metric := mux.Vars(r)["metric"]
	if strings.TrimSpace(metric) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	shares, err := h.deps.Contributions(r.Context(), entity, metric, matchFilter(r)...)
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

func entityFromPath(r *http.Request) (model.EntityID, bool) {
	vars := mux.Vars(r)
	entity := model.EntityID{
		TeamID:    vars["team_id"],
		ManagerID: vars["manager_id"],
	}
	if strings.TrimSpace(entity.TeamID) == "" || strings.TrimSpace(entity.ManagerID) == "" {
		return model.EntityID{}, false
	}
	return entity, true
}
