package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSettleDelay = 2 * time.Second

// OddsCache is the odds side of enrichment.
type OddsCache interface {
	IsStale(ctx context.Context) bool
	RefreshAll(ctx context.Context) (RefreshResult, error)
	Lookup(ctx context.Context, homeTeam, awayTeam string) (odds.Quote, bool, error)
}

// ScheduleStore is the schedule side of enrichment.
type ScheduleStore interface {
	FetchSchedule(ctx context.Context, forceRefresh bool) (schedule.Page, error)
	UpdateOdds(ctx context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) error
}

type EnrichmentServiceConfig struct {
	// SettleDelay is waited after a successful refresh. Negative disables it.
	SettleDelay time.Duration
	// MaxConcurrency caps lookups in flight. Zero runs every lookup at once.
	MaxConcurrency int
	Logger         *logging.Logger
}

// EnrichmentService attaches cached odds to games that have none.
type EnrichmentService struct {
	odds        OddsCache
	schedule    ScheduleStore
	settleDelay time.Duration
	maxWorkers  int
	logger      *logging.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// EnrichResult summarizes one enrichment pass.
type EnrichResult struct {
	Missing      int
	Matched      int
	Refreshed    bool
	RefreshError string
}

func NewEnrichmentService(oddsCache OddsCache, store ScheduleStore, cfg EnrichmentServiceConfig) *EnrichmentService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	settle := cfg.SettleDelay
	switch {
	case settle == 0:
		settle = defaultSettleDelay
	case settle < 0:
		settle = 0
	}

	return &EnrichmentService{
		odds:        oddsCache,
		schedule:    store,
		settleDelay: settle,
		maxWorkers:  cfg.MaxConcurrency,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Enrich fills odds into games in place. Lookup misses leave a game untouched.
func (s *EnrichmentService) Enrich(ctx context.Context, games []schedule.Game) (EnrichResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EnrichmentService.Enrich", attribute.Int("games", len(games)))
	defer span.End()

	missing := make([]int, 0, len(games))
	for i := range games {
		if games[i].MissingOdds() {
			missing = append(missing, i)
		}
	}
	result := EnrichResult{Missing: len(missing)}
	if len(missing) == 0 {
		return result, nil
	}

	if s.odds.IsStale(ctx) {
		s.logger.InfoContext(ctx, "odds cache is stale, refreshing all odds")
		if _, err := s.odds.RefreshAll(ctx); err != nil {
			result.RefreshError = err.Error()
			s.logger.WarnContext(ctx, "refresh odds failed", "error", err)
		} else {
			result.Refreshed = true
			if err := s.sleep(ctx, s.settleDelay); err != nil {
				return result, err
			}
		}
	}

	workers := s.maxWorkers
	if workers <= 0 || workers > len(missing) {
		workers = len(missing)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var matched atomic.Int32
	var wg sync.WaitGroup
	for _, idx := range missing {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if s.enrichOne(ctx, &games[idx]) {
				matched.Add(1)
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return result, fmt.Errorf("submit lookup to worker pool: %w", err)
		}
	}
	wg.Wait()

	result.Matched = int(matched.Load())
	s.logger.InfoContext(ctx, "odds enrichment finished", "missing", result.Missing, "matched", result.Matched, "refreshed", result.Refreshed)
	return result, nil
}

// EnrichSchedule loads the current schedule and enriches it.
func (s *EnrichmentService) EnrichSchedule(ctx context.Context, forceRefresh bool) (schedule.Page, EnrichResult, error) {
	page, err := s.schedule.FetchSchedule(ctx, forceRefresh)
	if err != nil {
		return schedule.Page{}, EnrichResult{}, err
	}
	result, err := s.Enrich(ctx, page.Games)
	if err != nil {
		return schedule.Page{}, result, err
	}
	return page, result, nil
}

func (s *EnrichmentService) enrichOne(ctx context.Context, game *schedule.Game) bool {
	quote, ok, err := s.odds.Lookup(ctx, game.HomeTeam, game.AwayTeam)
	if err != nil {
		s.logger.WarnContext(ctx, "odds lookup failed", "home_team", game.HomeTeam, "away_team", game.AwayTeam, "error", err)
		return false
	}
	if !ok {
		return false
	}

	game.SetOdds(quote.HomeOdds, quote.AwayOdds)
	if err := s.schedule.UpdateOdds(ctx, game.HomeTeam, game.AwayTeam, quote.HomeOdds, quote.AwayOdds); err != nil {
		s.logger.WarnContext(ctx, "persist game odds failed", "home_team", game.HomeTeam, "away_team", game.AwayTeam, "error", err)
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
