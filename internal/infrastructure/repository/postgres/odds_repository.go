package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	qb "github.com/riskibarqy/schedule-odds/internal/platform/querybuilder"
)

const oddsCacheTable = "odds_cache"

type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

func (r *OddsRepository) HasFreshSince(ctx context.Context, since time.Time) (bool, error) {
	query, args, err := qb.Select("fetched_at").
		From(oddsCacheTable).
		Where(qb.Gte("fetched_at", since)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build select fresh odds query: %w", err)
	}

	var fetchedAt time.Time
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &fetchedAt, query, args...)
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("select fresh odds: %w", err)
	}
	return true, nil
}

// ListFreshSince returns entries fetched at or after since, newest first.
func (r *OddsRepository) ListFreshSince(ctx context.Context, since time.Time) ([]odds.CacheEntry, error) {
	query, args, err := qb.Select(oddsCacheColumns...).
		From(oddsCacheTable).
		Where(qb.Gte("fetched_at", since)).
		OrderBy("fetched_at DESC", "seq DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select odds cache query: %w", err)
	}

	var rows []oddsCacheTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select odds cache: %w", err)
	}

	out := make([]odds.CacheEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, odds.CacheEntry{
			HomeTeam:  row.HomeTeam,
			AwayTeam:  row.AwayTeam,
			HomeOdds:  row.HomeOdds,
			AwayOdds:  row.AwayOdds,
			FetchedAt: row.FetchedAt,
			SportKey:  row.SportKey,
			GameDate:  nullTimeToPtr(row.GameDate),
		})
	}
	return out, nil
}

func (r *OddsRepository) Append(ctx context.Context, entries []odds.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	builder := qb.InsertInto(oddsCacheTable).Columns(oddsCacheColumns...)
	for _, e := range entries {
		builder.Values(
			e.HomeTeam,
			e.AwayTeam,
			e.HomeOdds,
			e.AwayOdds,
			e.SportKey,
			timePtrToNull(e.GameDate),
			e.FetchedAt,
		)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert odds cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d odds cache entries: %w", len(entries), err)
	}
	return nil
}
