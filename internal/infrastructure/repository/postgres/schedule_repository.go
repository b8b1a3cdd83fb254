package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	qb "github.com/riskibarqy/schedule-odds/internal/platform/querybuilder"
)

const gamesTable = "games"

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Metadata(ctx context.Context) (schedule.Metadata, error) {
	query, args, err := qb.Select("COUNT(*) AS total", "MAX(created_at) AS last_fetched").
		From(gamesTable).
		ToSQL()
	if err != nil {
		return schedule.Metadata{}, fmt.Errorf("build select games metadata query: %w", err)
	}

	var row gameMetadataModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if err != nil {
		if isNotFound(err) {
			return schedule.Metadata{}, nil
		}
		return schedule.Metadata{}, fmt.Errorf("select games metadata: %w", err)
	}

	meta := schedule.Metadata{TotalGames: row.Total}
	if row.LastFetched.Valid {
		meta.LastFetched = row.LastFetched.Time
	}
	return meta, nil
}

func (r *ScheduleRepository) List(ctx context.Context) ([]schedule.Game, error) {
	query, args, err := qb.Select(gameColumns...).
		From(gamesTable).
		OrderBy("date ASC", "time ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]schedule.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, schedule.Game{
			Date:     row.Date,
			Time:     row.Time,
			HomeTeam: row.HomeTeam,
			AwayTeam: row.AwayTeam,
			League:   row.League,
			HomeLogo: row.HomeLogo,
			AwayLogo: row.AwayLogo,
			HomeOdds: nullFloatToPtr(row.HomeOdds),
			AwayOdds: nullFloatToPtr(row.AwayOdds),
		})
	}
	return out, nil
}

func (r *ScheduleRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.DeleteFrom(gamesTable).All().ToSQL()
	if err != nil {
		return fmt.Errorf("build delete games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete games: %w", err)
	}
	return nil
}

// InsertBatch writes the games in one statement, so a batch lands or fails as a whole.
func (r *ScheduleRepository) InsertBatch(ctx context.Context, games []schedule.Game, createdAt time.Time) error {
	if len(games) == 0 {
		return nil
	}

	builder := qb.InsertInto(gamesTable).Columns(gameColumns...)
	for _, g := range games {
		builder.Values(
			g.Date,
			g.Time,
			g.HomeTeam,
			g.AwayTeam,
			g.League,
			g.HomeLogo,
			g.AwayLogo,
			floatPtrToNull(g.HomeOdds),
			floatPtrToNull(g.AwayOdds),
			createdAt,
		)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert games query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d games: %w", len(games), err)
	}
	return nil
}

func (r *ScheduleRepository) UpdateOdds(ctx context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) (int64, error) {
	query, args, err := qb.Update(gamesTable).
		Set("home_odds", homeOdds).
		Set("away_odds", awayOdds).
		Where(
			qb.Eq("home_team", homeTeam),
			qb.Eq("away_team", awayTeam),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build update game odds query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update game odds: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read updated game rows: %w", err)
	}
	return affected, nil
}
