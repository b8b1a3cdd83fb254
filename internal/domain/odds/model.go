package odds

import "time"

// CacheEntry is one head-to-head price pair captured from the odds provider.
type CacheEntry struct {
	HomeTeam  string
	AwayTeam  string
	HomeOdds  float64
	AwayOdds  float64
	FetchedAt time.Time
	SportKey  string
	GameDate  *time.Time
}

// Quote is the result of an odds lookup for one pairing.
type Quote struct {
	HomeTeam  string
	AwayTeam  string
	HomeOdds  float64
	AwayOdds  float64
	FetchedAt time.Time
}

// Event is one fixture returned by the odds provider.
type Event struct {
	ID           string
	SportKey     string
	CommenceTime time.Time
	HomeTeam     string
	AwayTeam     string
	Bookmakers   []Bookmaker
}

type Bookmaker struct {
	Key     string
	Title   string
	Markets []Market
}

type Market struct {
	Key      string
	Outcomes []Outcome
}

type Outcome struct {
	Name  string
	Price float64
}

const MarketHeadToHead = "h2h"

// HeadToHead returns the first bookmaker's h2h market.
func (e Event) HeadToHead() (Market, bool) {
	if len(e.Bookmakers) == 0 {
		return Market{}, false
	}
	for _, market := range e.Bookmakers[0].Markets {
		if market.Key == MarketHeadToHead {
			return market, true
		}
	}
	return Market{}, false
}
