package api

import (
	"errors"
	"fmt"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/repository"
	service "github.com/alessandrofrai/serie-a-analytics/internal/app"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/aggregate"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/cluster"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/topsis"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// NewKind tags a sentinel kind with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel kind and keeps the underlying cause inspectable.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with the operation that raised it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// statusForError translates domain errors into an HTTP status and a
// machine-readable error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrQueueFull):
		return 429, "backpressure"
	case errors.Is(err, service.ErrNotStarted):
		return 503, "not_ready"
	case errors.Is(err, ErrBadRequest):
		return 400, "bad_request"
	case errors.Is(err, catalog.ErrUnknownMetric):
		return 404, "unknown_metric"
	case errors.Is(err, repository.ErrEntityNotFound):
		return 404, "entity_not_found"
	case errors.Is(err, aggregate.ErrMismatchedWindow):
		return 422, "mismatched_window"
	case errors.Is(err, topsis.ErrEmptyComparisonSet):
		return 422, "empty_comparison_set"
	case errors.Is(err, cluster.ErrInsufficientData):
		return 422, "insufficient_data"
	default:
		return 500, "internal_error"
	}
}
