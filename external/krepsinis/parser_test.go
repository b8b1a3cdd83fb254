package krepsinis

import (
	"os"
	"path/filepath"
	"testing"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return raw
}

func TestParser_ParseFirstPage(t *testing.T) {
	t.Parallel()

	games, total, err := NewParser("").Parse(readFixture(t, "schedule_page1.html"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total pages 2, got %d", total)
	}
	if len(games) != 9 {
		t.Fatalf("expected 9 games (malformed row dropped), got %d", len(games))
	}

	first := games[0]
	if first.Date != "2025-10-02 18:00" || first.Time != "18:00" {
		t.Fatalf("unexpected date/time on first game: %+v", first)
	}
	if first.HomeTeam != "Žalgiris" || first.AwayTeam != "Real Madrid" || first.League != "Eurolyga" {
		t.Fatalf("unexpected teams on first game: %+v", first)
	}
	if first.HomeLogo != "https://www.krepsinis.net/images/teams/zalgiris.png" {
		t.Fatalf("expected relative logo to be prefixed, got %q", first.HomeLogo)
	}
	if first.AwayLogo != "https://cdn.krepsinis.net/teams/real.png" {
		t.Fatalf("expected absolute logo to be kept, got %q", first.AwayLogo)
	}
	if games[1].HomeLogo != "" || games[1].AwayLogo != "" {
		t.Fatalf("expected no logos on second game, got %+v", games[1])
	}

	for _, g := range games {
		if g.HomeTeam == "Fenerbahce" && g.AwayTeam == "Monaco" {
			t.Fatalf("row without league must be skipped")
		}
	}

	dates := map[string]int{}
	for _, g := range games {
		dates[g.Date]++
	}
	if len(dates) != 3 || dates["2025-10-02 18:00"] != 3 || dates["2025-10-07 19:00"] != 3 {
		t.Fatalf("unexpected date distribution: %v", dates)
	}
}

func TestParser_MissingContainerReturnsEmpty(t *testing.T) {
	t.Parallel()

	games, total, err := NewParser(DefaultOrigin).Parse(readFixture(t, "schedule_no_table.html"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
	if total != 1 {
		t.Fatalf("expected default total pages 1, got %d", total)
	}
}

func TestParser_RowsBeforeFirstDateHaveEmptyDate(t *testing.T) {
	t.Parallel()

	body := []byte(`<div id="timetablesDesktop">
<div class="tmtb-row"><div class="tmtb-time">17:00</div>
<div class="tmtb-team-home"><span class="tmtb-team-h-name">A</span></div>
<div class="tmtb-team-away"><span class="tmtb-team-a-name">B</span></div>
<div class="tmtb-league">L</div></div>
<section><div class="tmtb-row"><div class="tmtb-time">18:00</div>
<div class="tmtb-team-home"><span class="tmtb-team-h-name">C</span></div>
<div class="tmtb-team-away"><span class="tmtb-team-a-name">D</span></div>
<div class="tmtb-league">L</div></div></section>
</div>`)

	games, _, err := NewParser(DefaultOrigin).Parse(body)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected only direct children to be read, got %d games", len(games))
	}
	if games[0].Date != "" {
		t.Fatalf("expected empty date before first marker, got %q", games[0].Date)
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "no pager", body: `<div></div>`, want: 1},
		{name: "pager without links", body: `<div class="league-pager"><div class="Upager"><span>1</span></div></div>`, want: 1},
		{
			name: "max page wins",
			body: `<div class="league-pager"><div class="Upager">
<a href="?page=3">3</a><a href="?page=12">12</a><a href="?page=7">7</a><a href="/other">x</a></div></div>`,
			want: 12,
		},
		{
			name: "links outside pager are ignored",
			body: `<a href="?page=40">40</a><div class="league-pager"><div class="Upager"><a href="?page=2">2</a></div></div>`,
			want: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, total, err := NewParser(DefaultOrigin).Parse([]byte(tc.body))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if total != tc.want {
				t.Fatalf("expected %d pages, got %d", tc.want, total)
			}
		})
	}
}
