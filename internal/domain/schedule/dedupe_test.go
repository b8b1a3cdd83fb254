package schedule

import "testing"

func TestDeduplicate_KeepsFirstOccurrenceInOrder(t *testing.T) {
	t.Parallel()

	home := 1.5
	games := []Game{
		{Date: "2025-10-02 20:00", Time: "20:00", HomeTeam: "Zalgiris", AwayTeam: "Real Madrid", League: "Eurolyga", HomeOdds: &home},
		{Date: "2025-10-02 20:00", Time: "21:30", HomeTeam: "Fenerbahce", AwayTeam: "Olympiacos", League: "Eurolyga"},
		{Date: "2025-10-02 20:00", Time: "20:00", HomeTeam: "Zalgiris", AwayTeam: "Real Madrid", League: "Other"},
		{Date: "2025-10-03 19:00", Time: "20:00", HomeTeam: "Zalgiris", AwayTeam: "Real Madrid", League: "Eurolyga"},
	}

	got := Deduplicate(games)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique games, got %d", len(got))
	}
	if got[0].League != "Eurolyga" || got[0].HomeOdds == nil {
		t.Fatalf("expected first occurrence to survive, got %+v", got[0])
	}
	if got[1].HomeTeam != "Fenerbahce" || got[2].Date != "2025-10-03 19:00" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestDeduplicate_IsIdempotent(t *testing.T) {
	t.Parallel()

	games := []Game{
		{Date: "d1", Time: "t1", HomeTeam: "A", AwayTeam: "B"},
		{Date: "d1", Time: "t1", HomeTeam: "A", AwayTeam: "B"},
		{Date: "d1", Time: "t2", HomeTeam: "A", AwayTeam: "B"},
	}

	once := Deduplicate(games)
	twice := Deduplicate(once)
	if len(once) != len(twice) {
		t.Fatalf("expected idempotent dedup, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Key() != twice[i].Key() {
			t.Fatalf("order changed at %d: %v vs %v", i, once[i].Key(), twice[i].Key())
		}
	}

	seen := map[Key]bool{}
	for _, g := range once {
		if seen[g.Key()] {
			t.Fatalf("duplicate key %s", g.Key())
		}
		seen[g.Key()] = true
	}
}

func TestDeduplicate_Empty(t *testing.T) {
	t.Parallel()

	if got := Deduplicate(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
