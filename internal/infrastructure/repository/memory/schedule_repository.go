package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
)

type scheduleRow struct {
	game      schedule.Game
	createdAt time.Time
}

// ScheduleRepository keeps the snapshot in process. Rows are not unique by
// identity, mirroring a table without a unique constraint.
type ScheduleRepository struct {
	mu   sync.RWMutex
	rows []scheduleRow
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) Metadata(_ context.Context) (schedule.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta := schedule.Metadata{TotalGames: len(r.rows)}
	for _, row := range r.rows {
		if row.createdAt.After(meta.LastFetched) {
			meta.LastFetched = row.createdAt
		}
	}
	return meta, nil
}

func (r *ScheduleRepository) List(_ context.Context) ([]schedule.Game, error) {
	r.mu.RLock()
	out := make([]schedule.Game, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, cloneGame(row.game))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *ScheduleRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.rows = nil
	r.mu.Unlock()
	return nil
}

func (r *ScheduleRepository) InsertBatch(_ context.Context, games []schedule.Game, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range games {
		r.rows = append(r.rows, scheduleRow{game: cloneGame(g), createdAt: createdAt})
	}
	return nil
}

func (r *ScheduleRepository) UpdateOdds(_ context.Context, homeTeam, awayTeam string, homeOdds, awayOdds float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for i := range r.rows {
		if r.rows[i].game.HomeTeam != homeTeam || r.rows[i].game.AwayTeam != awayTeam {
			continue
		}
		r.rows[i].game.SetOdds(homeOdds, awayOdds)
		updated++
	}
	return updated, nil
}

func cloneGame(g schedule.Game) schedule.Game {
	if g.HomeOdds != nil {
		v := *g.HomeOdds
		g.HomeOdds = &v
	}
	if g.AwayOdds != nil {
		v := *g.AwayOdds
		g.AwayOdds = &v
	}
	return g
}
