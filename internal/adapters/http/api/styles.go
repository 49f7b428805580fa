package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/cluster"
)

// StyleReader groups entities into playing styles over a match window.
type StyleReader interface {
	PlayingStyles(ctx context.Context, k int, matchIDs ...string) (*cluster.Result, error)
}

// StylesHandler handles playing-style requests.
type StylesHandler struct {
	deps StyleReader
}

// NewStylesHandler creates a new playing-style handler.
func NewStylesHandler(deps StyleReader) *StylesHandler {
	return &StylesHandler{deps: deps}
}

// HandleGetStyles handles GET /v1/styles?k=N&matches=a,b requests. With no
// k parameter the stock group count applies; with no matches parameter the
// grouping covers every ingested match.
func (h *StylesHandler) HandleGetStyles(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_styles"

	k := 0
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		n, err := strconv.Atoi(kStr)
		if err != nil || n < 2 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		k = n
	}

	result, err := h.deps.PlayingStyles(r.Context(), k, matchFilter(r)...)
	if err != nil {
		status, code := statusForError(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
