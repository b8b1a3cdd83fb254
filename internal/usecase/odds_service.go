package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/teamname"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultOddsSportKey = "basketball_euroleague"
	defaultOddsTTL      = 24 * time.Hour
)

type OddsServiceConfig struct {
	SportKey string
	TTL      time.Duration
	Clock    func() time.Time
	Logger   *logging.Logger
	Metrics  *metrics.Registry
}

// OddsService maintains the odds cache and answers fuzzy team-pair lookups.
type OddsService struct {
	repo     odds.Repository
	provider odds.Provider
	sportKey string
	ttl      time.Duration
	now      func() time.Time
	logger   *logging.Logger
	metrics  *metrics.Registry
}

// RefreshResult summarizes one provider refresh.
type RefreshResult struct {
	Events  int
	Stored  int
	Skipped int
}

func NewOddsService(repo odds.Repository, provider odds.Provider, cfg OddsServiceConfig) *OddsService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	sportKey := strings.TrimSpace(cfg.SportKey)
	if sportKey == "" {
		sportKey = DefaultOddsSportKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultOddsTTL
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &OddsService{
		repo:     repo,
		provider: provider,
		sportKey: sportKey,
		ttl:      ttl,
		now:      now,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// IsStale is true when no cache entry at all is younger than the TTL.
func (s *OddsService) IsStale(ctx context.Context) bool {
	fresh, err := s.repo.HasFreshSince(ctx, s.cutoff())
	if err != nil {
		s.logger.WarnContext(ctx, "check odds cache freshness failed", "error", err)
		return true
	}
	return !fresh
}

// RefreshAll pulls current events from the provider and appends one cache
// entry per event with a usable head-to-head market.
func (s *OddsService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.RefreshAll", attribute.String("sport_key", s.sportKey))
	defer span.End()

	events, err := s.provider.FetchEvents(ctx, s.sportKey)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("fetch odds events: %w", err)
	}

	fetchedAt := s.now().UTC()
	result := RefreshResult{Events: len(events)}
	entries := make([]odds.CacheEntry, 0, len(events))
	for _, event := range events {
		entry, ok := entryFromEvent(event, fetchedAt)
		if !ok {
			result.Skipped++
			s.logger.DebugContext(ctx, "skipping odds event", "event_id", event.ID, "home_team", event.HomeTeam, "away_team", event.AwayTeam)
			continue
		}
		if entry.SportKey == "" {
			entry.SportKey = s.sportKey
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		if err := s.repo.Append(ctx, entries); err != nil {
			return result, fmt.Errorf("append odds cache: %w", err)
		}
	}
	result.Stored = len(entries)
	s.metrics.OddsStored(result.Stored)
	s.logger.InfoContext(ctx, "odds cache refreshed", "events", result.Events, "stored", result.Stored, "skipped", result.Skipped)
	return result, nil
}

// Lookup returns the newest fresh entry whose home and away names both fuzzy-match.
func (s *OddsService) Lookup(ctx context.Context, homeTeam, awayTeam string) (odds.Quote, bool, error) {
	if strings.TrimSpace(homeTeam) == "" || strings.TrimSpace(awayTeam) == "" {
		return odds.Quote{}, false, fmt.Errorf("%w: homeTeam and awayTeam are required", ErrInvalidInput)
	}

	entries, err := s.repo.ListFreshSince(ctx, s.cutoff())
	if err != nil {
		s.metrics.OddsLookup("error")
		return odds.Quote{}, false, fmt.Errorf("list fresh odds: %w", err)
	}

	for _, entry := range entries {
		if teamname.Match(entry.HomeTeam, homeTeam) && teamname.Match(entry.AwayTeam, awayTeam) {
			s.metrics.OddsLookup("hit")
			s.logger.DebugContext(ctx, "odds matched",
				"home_team", homeTeam, "cached_home_team", entry.HomeTeam,
				"away_team", awayTeam, "cached_away_team", entry.AwayTeam,
			)
			return odds.Quote{
				HomeTeam:  entry.HomeTeam,
				AwayTeam:  entry.AwayTeam,
				HomeOdds:  entry.HomeOdds,
				AwayOdds:  entry.AwayOdds,
				FetchedAt: entry.FetchedAt,
			}, true, nil
		}
	}

	s.metrics.OddsLookup("miss")
	s.logger.DebugContext(ctx, "no odds match", "home_team", homeTeam, "away_team", awayTeam)
	return odds.Quote{}, false, nil
}

func (s *OddsService) cutoff() time.Time {
	return s.now().Add(-s.ttl)
}

// entryFromEvent reads the first bookmaker's h2h prices. Outcome names are
// matched exactly first and fuzzily second, and must map to distinct outcomes.
func entryFromEvent(event odds.Event, fetchedAt time.Time) (odds.CacheEntry, bool) {
	market, ok := event.HeadToHead()
	if !ok || len(market.Outcomes) == 0 {
		return odds.CacheEntry{}, false
	}

	homeIdx := findOutcome(market.Outcomes, event.HomeTeam, -1)
	if homeIdx < 0 {
		return odds.CacheEntry{}, false
	}
	awayIdx := findOutcome(market.Outcomes, event.AwayTeam, homeIdx)
	if awayIdx < 0 {
		return odds.CacheEntry{}, false
	}

	entry := odds.CacheEntry{
		HomeTeam:  event.HomeTeam,
		AwayTeam:  event.AwayTeam,
		HomeOdds:  market.Outcomes[homeIdx].Price,
		AwayOdds:  market.Outcomes[awayIdx].Price,
		FetchedAt: fetchedAt,
		SportKey:  event.SportKey,
	}
	if !event.CommenceTime.IsZero() {
		gameDate := event.CommenceTime
		entry.GameDate = &gameDate
	}
	return entry, true
}

func findOutcome(outcomes []odds.Outcome, team string, skip int) int {
	for i, outcome := range outcomes {
		if i != skip && outcome.Name == team {
			return i
		}
	}
	for i, outcome := range outcomes {
		if i != skip && strings.TrimSpace(outcome.Name) != "" && teamname.Match(outcome.Name, team) {
			return i
		}
	}
	return -1
}
