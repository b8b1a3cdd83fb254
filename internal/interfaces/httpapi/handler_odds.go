package httpapi

import (
	"net/http"
	"strings"
)

// GetOdds refreshes the odds cache (?refreshAll=true) or looks up one pairing.
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOdds")
	defer span.End()

	setPermissiveCORSHeaders(w.Header())
	if unavailable(ctx, w, h.odds != nil, "odds provider") {
		return
	}

	refreshAll, err := parseBoolQuery(r, "refreshAll")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if refreshAll {
		result, err := h.odds.RefreshAll(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "refresh odds failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, oddsRefreshDTO{
			Message: "Odds cache refreshed",
			Events:  result.Events,
			Stored:  result.Stored,
			Skipped: result.Skipped,
		})
		return
	}

	query := oddsQuery{
		HomeTeam: strings.TrimSpace(r.URL.Query().Get("homeTeam")),
		AwayTeam: strings.TrimSpace(r.URL.Query().Get("awayTeam")),
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	quote, found, err := h.odds.Lookup(ctx, query.HomeTeam, query.AwayTeam)
	if err != nil {
		h.logger.ErrorContext(ctx, "lookup odds failed", "home_team", query.HomeTeam, "away_team", query.AwayTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, quoteToDTO(query.HomeTeam, query.AwayTeam, quote, found))
}

// OddsPreflight answers browser preflight requests for the odds endpoint.
func (h *Handler) OddsPreflight(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "httpapi.Handler.OddsPreflight")
	defer span.End()

	setPermissiveCORSHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
}
