package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	basecache "github.com/riskibarqy/schedule-odds/internal/platform/cache"
)

const (
	scheduleListKey     = "schedule:list"
	scheduleMetadataKey = "schedule:metadata"
	oddsFreshKey        = "odds:fresh"
)

// ScheduleRepository caches snapshot reads. Every write drops the cached reads.
type ScheduleRepository struct {
	next  schedule.Repository
	cache *basecache.Store
}

func NewScheduleRepository(next schedule.Repository, cache *basecache.Store) *ScheduleRepository {
	return &ScheduleRepository{next: next, cache: cache}
}

func (r *ScheduleRepository) Metadata(ctx context.Context) (schedule.Metadata, error) {
	v, err := r.cache.GetOrLoad(ctx, scheduleMetadataKey, func(ctx context.Context) (any, error) {
		return r.next.Metadata(ctx)
	})
	if err != nil {
		return schedule.Metadata{}, err
	}

	meta, _ := v.(schedule.Metadata)
	return meta, nil
}

func (r *ScheduleRepository) List(ctx context.Context) ([]schedule.Game, error) {
	v, err := r.cache.GetOrLoad(ctx, scheduleListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneGames(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]schedule.Game)
	return cloneGames(items), nil
}

func (r *ScheduleRepository) DeleteAll(ctx context.Context) error {
	defer r.invalidate(ctx)
	return r.next.DeleteAll(ctx)
}

func (r *ScheduleRepository) InsertBatch(ctx context.Context, games []schedule.Game, createdAt time.Time) error {
	defer r.invalidate(ctx)
	return r.next.InsertBatch(ctx, games, createdAt)
}

func (r *ScheduleRepository) UpdateOdds(ctx context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) (int64, error) {
	defer r.invalidate(ctx)
	return r.next.UpdateOdds(ctx, homeTeam, awayTeam, homeOdds, awayOdds)
}

func (r *ScheduleRepository) invalidate(ctx context.Context) {
	r.cache.Delete(ctx, scheduleListKey)
	r.cache.Delete(ctx, scheduleMetadataKey)
}

// OddsRepository caches the fresh window. A cached window loaded from an
// earlier cutoff answers any later cutoff by filtering. Append drops it.
type OddsRepository struct {
	next  odds.Repository
	cache *basecache.Store
}

func NewOddsRepository(next odds.Repository, cache *basecache.Store) *OddsRepository {
	return &OddsRepository{next: next, cache: cache}
}

type cachedOddsWindow struct {
	since   time.Time
	entries []odds.CacheEntry
}

func (r *OddsRepository) HasFreshSince(ctx context.Context, since time.Time) (bool, error) {
	if window, ok := r.window(ctx, since); ok {
		for _, entry := range window.entries {
			if !entry.FetchedAt.Before(since) {
				return true, nil
			}
		}
		return false, nil
	}
	return r.next.HasFreshSince(ctx, since)
}

func (r *OddsRepository) ListFreshSince(ctx context.Context, since time.Time) ([]odds.CacheEntry, error) {
	if window, ok := r.window(ctx, since); ok {
		return filterSince(window.entries, since), nil
	}

	gen := r.cache.Generation(oddsFreshKey)
	entries, err := r.next.ListFreshSince(ctx, since)
	if err != nil {
		return nil, err
	}
	r.cache.SetIfGeneration(ctx, oddsFreshKey, gen, cachedOddsWindow{
		since:   since,
		entries: append([]odds.CacheEntry(nil), entries...),
	})
	return append([]odds.CacheEntry(nil), entries...), nil
}

func (r *OddsRepository) Append(ctx context.Context, entries []odds.CacheEntry) error {
	defer r.cache.Delete(ctx, oddsFreshKey)
	return r.next.Append(ctx, entries)
}

func (r *OddsRepository) window(ctx context.Context, since time.Time) (cachedOddsWindow, bool) {
	v, ok := r.cache.Get(ctx, oddsFreshKey)
	if !ok {
		return cachedOddsWindow{}, false
	}
	window, ok := v.(cachedOddsWindow)
	if !ok || since.Before(window.since) {
		return cachedOddsWindow{}, false
	}
	return window, true
}

func filterSince(entries []odds.CacheEntry, since time.Time) []odds.CacheEntry {
	out := make([]odds.CacheEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.FetchedAt.Before(since) {
			out = append(out, entry)
		}
	}
	return out
}

func cloneGames(items []schedule.Game) []schedule.Game {
	out := make([]schedule.Game, len(items))
	for i, g := range items {
		if g.HomeOdds != nil {
			v := *g.HomeOdds
			g.HomeOdds = &v
		}
		if g.AwayOdds != nil {
			v := *g.AwayOdds
			g.AwayOdds = &v
		}
		out[i] = g
	}
	return out
}
