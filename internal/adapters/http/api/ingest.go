// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
)

// IngestHandler handles match batch submissions.
type IngestHandler struct {
	deps Ingestor
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps Ingestor) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// batchRequest mirrors the request body for POST /v1/matches/{match_id}/events.
type batchRequest struct {
	BatchID     string             `json:"batch_id"`
	Events      []model.Event      `json:"events"`
	Appearances []model.Appearance `json:"appearances"`
}

func (b batchRequest) validate(matchID string) error {
	if len(b.Events) == 0 && len(b.Appearances) == 0 {
		return errors.New("batch carries neither events nor appearances")
	}
	for _, e := range b.Events {
		if e.MatchID != "" && e.MatchID != matchID {
			return errors.New("event match_id disagrees with URL match")
		}
		if strings.TrimSpace(e.TeamID) == "" || strings.TrimSpace(e.ManagerID) == "" {
			return errors.New("event missing team_id or manager_id")
		}
		if e.Type == "" {
			return errors.New("event missing type")
		}
	}
	for _, a := range b.Appearances {
		if a.MatchID != "" && a.MatchID != matchID {
			return errors.New("appearance match_id disagrees with URL match")
		}
		if strings.TrimSpace(a.TeamID) == "" || strings.TrimSpace(a.ManagerID) == "" {
			return errors.New("appearance missing team_id or manager_id")
		}
		if a.Minutes < 0 {
			return errors.New("appearance minutes must not be negative")
		}
	}
	return nil
}

// appearancesRequest mirrors the request body for POST /v1/appearances.
// Appearances carry their own match ids, so one submission can cover a
// whole round of lineups.
type appearancesRequest struct {
	BatchID     string             `json:"batch_id"`
	Appearances []model.Appearance `json:"appearances"`
}

func (b appearancesRequest) validate() error {
	if len(b.Appearances) == 0 {
		return errors.New("no appearances in request")
	}
	for _, a := range b.Appearances {
		if strings.TrimSpace(a.MatchID) == "" {
			return errors.New("appearance missing match_id")
		}
		if strings.TrimSpace(a.TeamID) == "" || strings.TrimSpace(a.ManagerID) == "" {
			return errors.New("appearance missing team_id or manager_id")
		}
		if a.Minutes < 0 {
			return errors.New("appearance minutes must not be negative")
		}
	}
	return nil
}

// HandlePostAppearances handles POST /v1/appearances requests: a
// minutes-only batch with no events.
func (h *IngestHandler) HandlePostAppearances(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_appearances"

	var req appearancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	batchID, duplicate, err := h.deps.IngestBatch(r.Context(), model.MatchBatch{
		BatchID:     req.BatchID,
		Appearances: req.Appearances,
	})
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", BatchID: batchID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", BatchID: batchID, Duplicate: false})
}

// HandlePostBatch handles POST /v1/matches/{match_id}/events requests.
func (h *IngestHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"

	matchID := mux.Vars(r)["match_id"]
	if strings.TrimSpace(matchID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(matchID); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	batch := model.MatchBatch{
		BatchID:     req.BatchID,
		MatchID:     matchID,
		Events:      req.Events,
		Appearances: req.Appearances,
	}
	batchID, duplicate, err := h.deps.IngestBatch(r.Context(), batch)
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", BatchID: batchID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", BatchID: batchID, Duplicate: false})
}
