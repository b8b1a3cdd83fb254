package oddsapi

import (
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
)

type eventDTO struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime string         `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []bookmakerDTO `json:"bookmakers"`
}

type bookmakerDTO struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	LastUpdate string      `json:"last_update"`
	Markets    []marketDTO `json:"markets"`
}

type marketDTO struct {
	Key      string       `json:"key"`
	Outcomes []outcomeDTO `json:"outcomes"`
}

type outcomeDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (e eventDTO) toDomain() odds.Event {
	out := odds.Event{
		ID:         e.ID,
		SportKey:   e.SportKey,
		HomeTeam:   e.HomeTeam,
		AwayTeam:   e.AwayTeam,
		Bookmakers: make([]odds.Bookmaker, 0, len(e.Bookmakers)),
	}
	if parsed, err := time.Parse(time.RFC3339, e.CommenceTime); err == nil {
		out.CommenceTime = parsed.UTC()
	}

	for _, b := range e.Bookmakers {
		bookmaker := odds.Bookmaker{Key: b.Key, Title: b.Title, Markets: make([]odds.Market, 0, len(b.Markets))}
		for _, m := range b.Markets {
			market := odds.Market{Key: m.Key, Outcomes: make([]odds.Outcome, 0, len(m.Outcomes))}
			for _, o := range m.Outcomes {
				market.Outcomes = append(market.Outcomes, odds.Outcome{Name: o.Name, Price: o.Price})
			}
			bookmaker.Markets = append(bookmaker.Markets, market)
		}
		out.Bookmakers = append(out.Bookmakers, bookmaker)
	}
	return out
}
