package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultScheduleTTL       = 6 * time.Hour
	defaultScheduleBatchSize = 100
)

// ScheduleAcquisition is the scraping side used by ScheduleService.
type ScheduleAcquisition interface {
	FetchPage(ctx context.Context, page int) (schedule.Page, error)
	FetchAll(ctx context.Context) ([]schedule.Game, error)
}

type ScheduleServiceConfig struct {
	TTL       time.Duration
	BatchSize int
	Clock     func() time.Time
	Logger    *logging.Logger
	Metrics   *metrics.Registry
}

// ScheduleService serves the persisted snapshot and re-scrapes it once it is older than the TTL.
type ScheduleService struct {
	repo      schedule.Repository
	acquirer  ScheduleAcquisition
	ttl       time.Duration
	batchSize int
	now       func() time.Time
	logger    *logging.Logger
	metrics   *metrics.Registry
}

// ReplaceResult reports how a snapshot replacement went.
type ReplaceResult struct {
	Unique        int
	Stored        int
	FailedBatches int
}

func NewScheduleService(repo schedule.Repository, acquirer ScheduleAcquisition, cfg ScheduleServiceConfig) *ScheduleService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultScheduleTTL
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultScheduleBatchSize
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &ScheduleService{
		repo:      repo,
		acquirer:  acquirer,
		ttl:       ttl,
		batchSize: batchSize,
		now:       now,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// ShouldRefresh is true when the snapshot is empty, unreadable or older than the TTL.
func (s *ScheduleService) ShouldRefresh(ctx context.Context) bool {
	meta, err := s.repo.Metadata(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read schedule metadata failed", "error", err)
		return true
	}
	if meta.Empty() {
		return true
	}
	return s.now().Sub(meta.LastFetched) > s.ttl
}

// Load returns the persisted games ordered by date then time, deduplicated.
func (s *ScheduleService) Load(ctx context.Context) ([]schedule.Game, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}

	games := schedule.Deduplicate(rows)
	if len(games) < len(rows) {
		s.logger.InfoContext(ctx, "filtered duplicate schedule rows", "rows", len(rows), "unique", len(games))
	}
	return games, nil
}

// ReplaceAll wipes the snapshot and inserts the deduplicated games in batches.
// A failed batch is logged and dropped; later batches still run.
func (s *ScheduleService) ReplaceAll(ctx context.Context, games []schedule.Game) (ReplaceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ReplaceAll", attribute.Int("games", len(games)))
	defer span.End()

	unique := schedule.Deduplicate(games)
	result := ReplaceResult{Unique: len(unique)}
	s.logger.InfoContext(ctx, "deduplicated scraped games", "scraped", len(games), "unique", len(unique))

	if err := s.repo.DeleteAll(ctx); err != nil {
		return result, fmt.Errorf("delete schedule: %w", err)
	}

	createdAt := s.now().UTC()
	for start := 0; start < len(unique); start += s.batchSize {
		end := min(start+s.batchSize, len(unique))
		batch := unique[start:end]
		if err := s.repo.InsertBatch(ctx, batch, createdAt); err != nil {
			result.FailedBatches++
			s.metrics.BatchFailed()
			s.logger.ErrorContext(ctx, "insert schedule batch failed",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err,
			)
			continue
		}
		result.Stored += len(batch)
	}

	s.logger.InfoContext(ctx, "schedule snapshot replaced", "stored", result.Stored, "failed_batches", result.FailedBatches)
	return result, nil
}

// UpdateOdds sets odds on every row with exactly these team names.
func (s *ScheduleService) UpdateOdds(ctx context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) error {
	if strings.TrimSpace(homeTeam) == "" || strings.TrimSpace(awayTeam) == "" {
		return fmt.Errorf("%w: home and away team are required", ErrInvalidInput)
	}

	updated, err := s.repo.UpdateOdds(ctx, homeTeam, awayTeam, homeOdds, awayOdds)
	if err != nil {
		return fmt.Errorf("update odds home=%s away=%s: %w", homeTeam, awayTeam, err)
	}
	if updated == 0 {
		s.logger.DebugContext(ctx, "no schedule rows for odds update", "home_team", homeTeam, "away_team", awayTeam)
	}
	return nil
}

// FetchSchedule serves the snapshot, re-scraping when forced, stale or empty.
func (s *ScheduleService) FetchSchedule(ctx context.Context, forceRefresh bool) (schedule.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.FetchSchedule", attribute.Bool("force_refresh", forceRefresh))
	defer span.End()

	if forceRefresh || s.ShouldRefresh(ctx) {
		s.logger.InfoContext(ctx, "fetching fresh schedule from source", "force_refresh", forceRefresh)
		s.metrics.ScheduleRead("scrape")
		return s.scrapeAndPersist(ctx)
	}

	games, err := s.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load cached schedule failed", "error", err)
	}
	if len(games) == 0 {
		s.logger.InfoContext(ctx, "no cached schedule, falling back to source")
		s.metrics.ScheduleRead("fallback")
		return s.scrapeAndPersist(ctx)
	}

	s.metrics.ScheduleRead("store")
	return singlePage(games), nil
}

// FetchPage scrapes one page without touching the snapshot.
func (s *ScheduleService) FetchPage(ctx context.Context, page int) (schedule.Page, error) {
	return s.acquirer.FetchPage(ctx, page)
}

// FetchDays returns the schedule grouped by date key in chronological order.
func (s *ScheduleService) FetchDays(ctx context.Context, forceRefresh bool) ([]schedule.Day, error) {
	page, err := s.FetchSchedule(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return schedule.GroupByDate(page.Games), nil
}

func (s *ScheduleService) scrapeAndPersist(ctx context.Context) (schedule.Page, error) {
	games, err := s.acquirer.FetchAll(ctx)
	if err != nil {
		return schedule.Page{}, fmt.Errorf("acquire schedule: %w", err)
	}

	if len(games) > 0 {
		if _, err := s.ReplaceAll(ctx, games); err != nil {
			s.logger.ErrorContext(ctx, "persist schedule snapshot failed", "error", err)
		}
	}
	return singlePage(schedule.Deduplicate(games)), nil
}

func singlePage(games []schedule.Game) schedule.Page {
	if games == nil {
		games = []schedule.Game{}
	}
	return schedule.Page{Games: games, CurrentPage: 1, TotalPages: 1}
}
