package odds

import (
	"context"
	"time"
)

// Repository stores odds cache entries. Entries are append-only.
type Repository interface {
	HasFreshSince(ctx context.Context, since time.Time) (bool, error)
	ListFreshSince(ctx context.Context, since time.Time) ([]CacheEntry, error)
	Append(ctx context.Context, entries []CacheEntry) error
}

// Provider fetches current events with prices from the odds provider.
type Provider interface {
	FetchEvents(ctx context.Context, sportKey string) ([]Event, error)
}
