package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
)

// OddsRepository is an append-only in-process odds cache.
type OddsRepository struct {
	mu      sync.RWMutex
	entries []odds.CacheEntry
}

func NewOddsRepository(seed ...odds.CacheEntry) *OddsRepository {
	return &OddsRepository{entries: append([]odds.CacheEntry(nil), seed...)}
}

func (r *OddsRepository) HasFreshSince(_ context.Context, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if !entry.FetchedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// ListFreshSince returns entries fetched at or after since, newest first.
// Among equal timestamps the later append comes first.
func (r *OddsRepository) ListFreshSince(_ context.Context, since time.Time) ([]odds.CacheEntry, error) {
	r.mu.RLock()
	out := make([]odds.CacheEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		if !r.entries[i].FetchedAt.Before(since) {
			out = append(out, r.entries[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.After(out[j].FetchedAt)
	})
	return out, nil
}

func (r *OddsRepository) Append(_ context.Context, entries []odds.CacheEntry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entries...)
	r.mu.Unlock()
	return nil
}
