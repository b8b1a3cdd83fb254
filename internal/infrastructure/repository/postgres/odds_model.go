package postgres

import (
	"database/sql"
	"time"
)

type oddsCacheTableModel struct {
	HomeTeam  string       `db:"home_team"`
	AwayTeam  string       `db:"away_team"`
	HomeOdds  float64      `db:"home_odds"`
	AwayOdds  float64      `db:"away_odds"`
	SportKey  string       `db:"sport_key"`
	GameDate  sql.NullTime `db:"game_date"`
	FetchedAt time.Time    `db:"fetched_at"`
}

var oddsCacheColumns = []string{
	"home_team",
	"away_team",
	"home_odds",
	"away_odds",
	"sport_key",
	"game_date",
	"fetched_at",
}
