package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

// ScheduleReader serves the persisted schedule snapshot.
type ScheduleReader interface {
	FetchSchedule(ctx context.Context, forceRefresh bool) (schedule.Page, error)
	FetchPage(ctx context.Context, page int) (schedule.Page, error)
	FetchDays(ctx context.Context, forceRefresh bool) ([]schedule.Day, error)
}

// OddsReader serves the odds cache.
type OddsReader interface {
	RefreshAll(ctx context.Context) (usecase.RefreshResult, error)
	Lookup(ctx context.Context, homeTeam, awayTeam string) (odds.Quote, bool, error)
}

// Enricher attaches cached odds to schedule games.
type Enricher interface {
	Enrich(ctx context.Context, games []schedule.Game) (usecase.EnrichResult, error)
	EnrichSchedule(ctx context.Context, forceRefresh bool) (schedule.Page, usecase.EnrichResult, error)
}

type Handler struct {
	schedules ScheduleReader
	odds      OddsReader
	enricher  Enricher
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler builds the API handler. odds and enricher may be nil when the
// odds provider is disabled; their endpoints then answer 503.
func NewHandler(schedules ScheduleReader, oddsReader OddsReader, enricher Enricher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		schedules: schedules,
		odds:      oddsReader,
		enricher:  enricher,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func unavailable(ctx context.Context, w http.ResponseWriter, configured bool, name string) bool {
	if configured {
		return false
	}
	writeError(ctx, w, fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name))
	return true
}
