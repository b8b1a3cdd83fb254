package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
)

func TestScheduleRepository_ListOrdersAndUpdatesOdds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewScheduleRepository()
	createdAt := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	if meta, _ := repo.Metadata(ctx); !meta.Empty() {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}

	_ = repo.InsertBatch(ctx, []schedule.Game{
		{Date: "2025-10-03 18:00", Time: "18:00", HomeTeam: "Partizan", AwayTeam: "Crvena Zvezda"},
		{Date: "2025-10-02 18:00", Time: "19:30", HomeTeam: "Olympiacos", AwayTeam: "Panathinaikos"},
		{Date: "2025-10-02 18:00", Time: "18:00", HomeTeam: "Žalgiris", AwayTeam: "Real Madrid"},
	}, createdAt)

	games, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if games[0].HomeTeam != "Žalgiris" || games[1].HomeTeam != "Olympiacos" || games[2].HomeTeam != "Partizan" {
		t.Fatalf("unexpected order: %+v", games)
	}

	meta, _ := repo.Metadata(ctx)
	if meta.TotalGames != 3 || !meta.LastFetched.Equal(createdAt) {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	updated, _ := repo.UpdateOdds(ctx, "Olympiacos", "Panathinaikos", 1.85, 1.95)
	if updated != 1 {
		t.Fatalf("expected one row updated, got %d", updated)
	}
	if updated, _ := repo.UpdateOdds(ctx, "olympiacos", "Panathinaikos", 1, 1); updated != 0 {
		t.Fatalf("expected exact matching only, got %d", updated)
	}

	games, _ = repo.List(ctx)
	if games[1].HomeOdds == nil || *games[1].HomeOdds != 1.85 || *games[1].AwayOdds != 1.95 {
		t.Fatalf("expected odds to be stored, got %+v", games[1])
	}

	_ = repo.DeleteAll(ctx)
	if games, _ := repo.List(ctx); len(games) != 0 {
		t.Fatalf("expected empty after delete, got %d", len(games))
	}
}

func TestOddsRepository_FreshnessAndOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	repo := NewOddsRepository(
		odds.CacheEntry{HomeTeam: "old", FetchedAt: now.Add(-25 * time.Hour)},
		odds.CacheEntry{HomeTeam: "edge", FetchedAt: now.Add(-24 * time.Hour)},
		odds.CacheEntry{HomeTeam: "newest", FetchedAt: now.Add(-time.Hour)},
	)
	_ = repo.Append(ctx, []odds.CacheEntry{{HomeTeam: "middle", FetchedAt: now.Add(-2 * time.Hour)}})

	since := now.Add(-24 * time.Hour)
	fresh, _ := repo.HasFreshSince(ctx, since)
	if !fresh {
		t.Fatalf("expected fresh entries")
	}
	if fresh, _ := repo.HasFreshSince(ctx, now); fresh {
		t.Fatalf("expected nothing fresh since now")
	}

	entries, _ := repo.ListFreshSince(ctx, since)
	if len(entries) != 3 {
		t.Fatalf("expected 3 fresh entries, got %d", len(entries))
	}
	if entries[0].HomeTeam != "newest" || entries[1].HomeTeam != "middle" || entries[2].HomeTeam != "edge" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
