package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

const noCachedOddsMessage = "No cached odds found for this matchup"

type gameDTO struct {
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	HomeTeam string   `json:"homeTeam"`
	AwayTeam string   `json:"awayTeam"`
	League   string   `json:"league"`
	HomeLogo string   `json:"homeLogo,omitempty"`
	AwayLogo string   `json:"awayLogo,omitempty"`
	HomeOdds *float64 `json:"homeOdds"`
	AwayOdds *float64 `json:"awayOdds"`
}

type scheduleDTO struct {
	Games       []gameDTO        `json:"games"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	Enrichment  *enrichResultDTO `json:"enrichment,omitempty"`
}

type scheduleDayDTO struct {
	Date  string    `json:"date"`
	Games []gameDTO `json:"games"`
}

type enrichResultDTO struct {
	Missing      int    `json:"missing"`
	Matched      int    `json:"matched"`
	Refreshed    bool   `json:"refreshed"`
	RefreshError string `json:"refreshError,omitempty"`
}

type oddsDTO struct {
	HomeTeam  string   `json:"homeTeam"`
	AwayTeam  string   `json:"awayTeam"`
	HomeOdds  *float64 `json:"homeOdds"`
	AwayOdds  *float64 `json:"awayOdds"`
	Cached    bool     `json:"cached"`
	FetchedAt string   `json:"fetchedAt,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type oddsRefreshDTO struct {
	Message string `json:"message"`
	Events  int    `json:"events"`
	Stored  int    `json:"stored"`
	Skipped int    `json:"skipped"`
}

type scheduleQuery struct {
	ForceRefresh bool
	Enrich       bool
	Page         int `validate:"gte=0"`
}

type oddsQuery struct {
	HomeTeam string `validate:"required"`
	AwayTeam string `validate:"required"`
}

type enrichScheduleRequest struct {
	ForceRefresh bool `json:"forceRefresh"`
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func parseIntQuery(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func parseScheduleQuery(r *http.Request) (scheduleQuery, error) {
	var (
		query scheduleQuery
		err   error
	)
	if query.ForceRefresh, err = parseBoolQuery(r, "forceRefresh"); err != nil {
		return scheduleQuery{}, err
	}
	if query.Enrich, err = parseBoolQuery(r, "enrich"); err != nil {
		return scheduleQuery{}, err
	}
	if query.Page, err = parseIntQuery(r, "page"); err != nil {
		return scheduleQuery{}, err
	}
	return query, nil
}

func gameToDTO(g schedule.Game) gameDTO {
	return gameDTO{
		Date:     g.Date,
		Time:     g.Time,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		League:   g.League,
		HomeLogo: g.HomeLogo,
		AwayLogo: g.AwayLogo,
		HomeOdds: copyFloat(g.HomeOdds),
		AwayOdds: copyFloat(g.AwayOdds),
	}
}

func gamesToDTO(games []schedule.Game) []gameDTO {
	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}
	return items
}

func pageToDTO(ctx context.Context, page schedule.Page) scheduleDTO {
	_, span := startSpan(ctx, "httpapi.pageToDTO")
	defer span.End()

	return scheduleDTO{
		Games:       gamesToDTO(page.Games),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}
}

func daysToDTO(days []schedule.Day) []scheduleDayDTO {
	items := make([]scheduleDayDTO, 0, len(days))
	for _, day := range days {
		items = append(items, scheduleDayDTO{Date: day.Date, Games: gamesToDTO(day.Games)})
	}
	return items
}

func enrichResultToDTO(result usecase.EnrichResult) *enrichResultDTO {
	return &enrichResultDTO{
		Missing:      result.Missing,
		Matched:      result.Matched,
		Refreshed:    result.Refreshed,
		RefreshError: result.RefreshError,
	}
}

func quoteToDTO(homeTeam, awayTeam string, quote odds.Quote, found bool) oddsDTO {
	if !found {
		return oddsDTO{
			HomeTeam: homeTeam,
			AwayTeam: awayTeam,
			Message:  noCachedOddsMessage,
		}
	}
	homeOdds, awayOdds := quote.HomeOdds, quote.AwayOdds
	return oddsDTO{
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeOdds:  &homeOdds,
		AwayOdds:  &awayOdds,
		Cached:    true,
		FetchedAt: formatOptionalTime(quote.FetchedAt),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func formatOptionalTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
