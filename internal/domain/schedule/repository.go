package schedule

import (
	"context"
	"time"
)

// Repository persists the schedule snapshot.
type Repository interface {
	Metadata(ctx context.Context) (Metadata, error)
	List(ctx context.Context) ([]Game, error)
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, games []Game, createdAt time.Time) error
	UpdateOdds(ctx context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) (int64, error)
}

// Source produces schedule pages from the upstream site.
type Source interface {
	FetchPage(ctx context.Context, page int) (Page, error)
}
