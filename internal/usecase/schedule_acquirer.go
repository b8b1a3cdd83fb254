package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/cache"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const (
	fullAcquisitionKey     = "full acquisition"
	defaultAcquisitionMemo = 5 * time.Minute
)

// SharedAcquisitionMemo lets several instances share one full acquisition.
type SharedAcquisitionMemo interface {
	Load(ctx context.Context) ([]schedule.Game, bool, error)
	Store(ctx context.Context, games []schedule.Game) error
}

type ScheduleAcquirerConfig struct {
	MemoTTL time.Duration
	Clock   cache.Clock
	// MaxConcurrentPages caps parallel page fetches. Zero means one goroutine per page.
	MaxConcurrentPages int
	SharedMemo         SharedAcquisitionMemo
	Logger             *logging.Logger
	Metrics            *metrics.Registry
}

// ScheduleAcquirer scrapes the schedule source page by page.
type ScheduleAcquirer struct {
	source      schedule.Source
	memo        *cache.Store
	shared      SharedAcquisitionMemo
	maxParallel int
	now         cache.Clock
	logger      *logging.Logger
	metrics     *metrics.Registry
}

func NewScheduleAcquirer(source schedule.Source, cfg ScheduleAcquirerConfig) *ScheduleAcquirer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.MemoTTL
	if ttl <= 0 {
		ttl = defaultAcquisitionMemo
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &ScheduleAcquirer{
		source:      source,
		memo:        cache.NewStoreWithClock(ttl, now),
		shared:      cfg.SharedMemo,
		maxParallel: cfg.MaxConcurrentPages,
		now:         now,
		logger:      logger,
		metrics:     cfg.Metrics,
	}
}

// FetchPage scrapes a single page. Results are neither deduplicated nor memoized.
func (a *ScheduleAcquirer) FetchPage(ctx context.Context, page int) (schedule.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleAcquirer.FetchPage", attribute.Int("page", page))
	defer span.End()

	if page < 1 {
		return schedule.Page{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}

	result, err := a.source.FetchPage(ctx, page)
	if err != nil {
		return schedule.Page{}, fmt.Errorf("fetch page %d: %w", page, err)
	}
	if result.Games == nil {
		result.Games = []schedule.Game{}
	}
	return result, nil
}

// FetchAll scrapes every page and concatenates the games in page order.
// Any page failure fails the whole call. Successful results are memoized.
// A caller whose ctx ends stops waiting; the load continues for the others.
func (a *ScheduleAcquirer) FetchAll(ctx context.Context) ([]schedule.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleAcquirer.FetchAll")
	defer span.End()

	value, err := a.memo.GetOrLoad(ctx, fullAcquisitionKey, func(ctx context.Context) (any, error) {
		return a.loadAll(ctx)
	})
	if err != nil {
		return nil, err
	}

	games, ok := value.([]schedule.Game)
	if !ok {
		return nil, fmt.Errorf("unexpected memo value type %T", value)
	}
	return slices.Clone(games), nil
}

// Invalidate drops the memoized full acquisition.
func (a *ScheduleAcquirer) Invalidate(ctx context.Context) {
	a.memo.Delete(ctx, fullAcquisitionKey)
}

func (a *ScheduleAcquirer) loadAll(ctx context.Context) ([]schedule.Game, error) {
	if a.shared != nil {
		games, ok, err := a.shared.Load(ctx)
		if err != nil {
			a.logger.WarnContext(ctx, "shared acquisition memo unavailable", "error", err)
		} else if ok {
			a.logger.InfoContext(ctx, "serving full acquisition from shared memo", "games", len(games))
			return games, nil
		}
	}

	started := a.now()
	games, err := a.scrapeAll(ctx)
	if err != nil {
		return nil, err
	}
	a.metrics.ObserveAcquisition(a.now().Sub(started).Seconds())

	if a.shared != nil {
		if err := a.shared.Store(ctx, games); err != nil {
			a.logger.WarnContext(ctx, "store shared acquisition memo failed", "error", err)
		}
	}
	return games, nil
}

func (a *ScheduleAcquirer) scrapeAll(ctx context.Context) ([]schedule.Game, error) {
	first, err := a.source.FetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}
	a.logger.InfoContext(ctx, "first schedule page scraped", "games", len(first.Games), "total_pages", first.TotalPages)

	games := make([]schedule.Game, 0, len(first.Games)*max(first.TotalPages, 1))
	games = append(games, first.Games...)
	if first.TotalPages <= 1 {
		return games, nil
	}

	remaining := make([]int, 0, first.TotalPages-1)
	for p := 2; p <= first.TotalPages; p++ {
		remaining = append(remaining, p)
	}

	workers := a.maxParallel
	if workers <= 0 || workers > len(remaining) {
		workers = len(remaining)
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	mapper := iter.Mapper[int, schedule.Page]{MaxGoroutines: workers}
	pages, err := mapper.MapErr(remaining, func(page *int) (schedule.Page, error) {
		result, fetchErr := a.source.FetchPage(fetchCtx, *page)
		if fetchErr != nil {
			cancel()
			return schedule.Page{}, fmt.Errorf("fetch page %d: %w", *page, fetchErr)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		a.logger.DebugContext(ctx, "extra schedule page scraped", "page", page.CurrentPage, "games", len(page.Games))
		games = append(games, page.Games...)
	}
	return games, nil
}
