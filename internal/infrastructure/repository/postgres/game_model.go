package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	Date      string          `db:"date"`
	Time      string          `db:"time"`
	HomeTeam  string          `db:"home_team"`
	AwayTeam  string          `db:"away_team"`
	League    string          `db:"league"`
	HomeLogo  string          `db:"home_logo"`
	AwayLogo  string          `db:"away_logo"`
	HomeOdds  sql.NullFloat64 `db:"home_odds"`
	AwayOdds  sql.NullFloat64 `db:"away_odds"`
	CreatedAt time.Time       `db:"created_at"`
}

type gameMetadataModel struct {
	Total       int          `db:"total"`
	LastFetched sql.NullTime `db:"last_fetched"`
}

var gameColumns = []string{
	"date",
	"time",
	"home_team",
	"away_team",
	"league",
	"home_logo",
	"away_logo",
	"home_odds",
	"away_odds",
	"created_at",
}
