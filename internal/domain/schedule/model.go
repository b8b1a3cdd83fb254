package schedule

import (
	"strings"
	"time"
)

// DateLayout is the layout of the date marker text on the source site.
const DateLayout = "2006-01-02 15:04"

// Game represents one scheduled fixture scraped from the source site.
type Game struct {
	Date     string
	Time     string
	HomeTeam string
	AwayTeam string
	League   string
	HomeLogo string
	AwayLogo string
	HomeOdds *float64
	AwayOdds *float64
}

// Key is the composite identity of a game inside one snapshot.
type Key struct {
	Date     string
	Time     string
	HomeTeam string
	AwayTeam string
}

func (g Game) Key() Key {
	return Key{
		Date:     g.Date,
		Time:     g.Time,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
	}
}

func (k Key) String() string {
	return strings.Join([]string{k.Date, k.Time, k.HomeTeam, k.AwayTeam}, "|")
}

// MissingOdds reports whether either side of the game lacks odds.
func (g Game) MissingOdds() bool {
	return g.HomeOdds == nil || g.AwayOdds == nil
}

func (g *Game) SetOdds(home, away float64) {
	g.HomeOdds = &home
	g.AwayOdds = &away
}

// Page is the result of scraping one page (or all pages) of the schedule.
type Page struct {
	Games       []Game
	CurrentPage int
	TotalPages  int
}

// Metadata describes the persisted snapshot.
type Metadata struct {
	LastFetched time.Time
	TotalGames  int
}

func (m Metadata) Empty() bool {
	return m.TotalGames == 0 || m.LastFetched.IsZero()
}

// ParseDate parses a date key in DateLayout.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}
