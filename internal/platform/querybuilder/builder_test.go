package querybuilder

import "testing"

func TestSelect_MetadataAndFreshOdds(t *testing.T) {
	query, args, err := Select("COUNT(*) AS total", "MAX(created_at) AS last_fetched").From("games").ToSQL()
	if err != nil {
		t.Fatalf("build metadata query: %v", err)
	}
	if query != "SELECT COUNT(*) AS total, MAX(created_at) AS last_fetched FROM games" || len(args) != 0 {
		t.Fatalf("unexpected query %q args=%v", query, args)
	}

	query, args, err = Select("home_team", "away_team").
		From("odds_cache").
		Where(Gte("fetched_at", "2025-10-01")).
		OrderBy("fetched_at DESC", "seq DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT home_team, away_team FROM odds_cache WHERE fetched_at >= $1 ORDER BY fetched_at DESC, seq DESC LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2025-10-01" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Select().From("games").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
}

func TestInsert_MultipleRows(t *testing.T) {
	query, args, err := InsertInto("games").
		Columns("home_team", "away_team").
		Values("A", "B").
		Values("C", "D").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO games (home_team, away_team) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "C" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("games").Columns("a", "b").Values("only-one").ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, _, err := InsertInto("games").Columns("a").ToSQL(); err == nil {
		t.Fatalf("expected error without rows")
	}
}

func TestUpdate_ContinuesPlaceholderNumbering(t *testing.T) {
	query, args, err := Update("games").
		Set("home_odds", 1.85).
		Set("away_odds", 1.95).
		Where(Eq("home_team", "Olympiacos"), Eq("away_team", "Panathinaikos")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE games SET home_odds = $1, away_odds = $2 WHERE home_team = $3 AND away_team = $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != 1.85 || args[3] != "Panathinaikos" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDelete(t *testing.T) {
	query, args, err := DeleteFrom("odds_cache").Where(Eq("sport_key", "basketball_euroleague")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM odds_cache WHERE sport_key = $1" || len(args) != 1 {
		t.Fatalf("unexpected query %q args=%v", query, args)
	}

	if _, _, err := DeleteFrom("games").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}

	query, _, err = DeleteFrom("games").All().ToSQL()
	if err != nil || query != "DELETE FROM games" {
		t.Fatalf("unexpected delete all query %q err=%v", query, err)
	}
}
