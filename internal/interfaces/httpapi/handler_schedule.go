package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

// GetSchedule serves the snapshot, or one live page when ?page is set.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	query, err := parseScheduleQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	var page schedule.Page
	if query.Page > 0 {
		page, err = h.schedules.FetchPage(ctx, query.Page)
	} else {
		page, err = h.schedules.FetchSchedule(ctx, query.ForceRefresh)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch schedule failed", "page", query.Page, "force_refresh", query.ForceRefresh, "error", err)
		writeError(ctx, w, err)
		return
	}

	var enrichment *enrichResultDTO
	if query.Enrich {
		if unavailable(ctx, w, h.enricher != nil, "odds enrichment") {
			return
		}
		result, err := h.enricher.Enrich(ctx, page.Games)
		if err != nil {
			h.logger.WarnContext(ctx, "enrich schedule failed", "error", err)
		}
		enrichment = enrichResultToDTO(result)
	}

	resp := pageToDTO(ctx, page)
	resp.Enrichment = enrichment
	writeSuccess(ctx, w, http.StatusOK, resp)
}

// GetScheduleDays serves the snapshot grouped by date key.
func (h *Handler) GetScheduleDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduleDays")
	defer span.End()

	forceRefresh, err := parseBoolQuery(r, "forceRefresh")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	days, err := h.schedules.FetchDays(ctx, forceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch schedule days failed", "force_refresh", forceRefresh, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, daysToDTO(days))
}

// EnrichSchedule attaches cached odds to the current snapshot.
func (h *Handler) EnrichSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnrichSchedule")
	defer span.End()

	if unavailable(ctx, w, h.enricher != nil, "odds enrichment") {
		return
	}

	var req enrichScheduleRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	_, result, err := h.enricher.EnrichSchedule(ctx, req.ForceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "enrich schedule failed", "force_refresh", req.ForceRefresh, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, enrichResultToDTO(result))
}
