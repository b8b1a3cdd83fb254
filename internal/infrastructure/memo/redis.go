package memo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
)

const (
	DefaultKey = "schedule-odds:acquisition:full"
	defaultTTL = 5 * time.Minute
)

// RedisAcquisitionMemo shares the last full acquisition between instances.
type RedisAcquisitionMemo struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type memoGame struct {
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	League   string   `json:"league"`
	HomeLogo string   `json:"home_logo,omitempty"`
	AwayLogo string   `json:"away_logo,omitempty"`
	HomeOdds *float64 `json:"home_odds,omitempty"`
	AwayOdds *float64 `json:"away_odds,omitempty"`
}

func NewRedisAcquisitionMemo(client *redis.Client, key string, ttl time.Duration) *RedisAcquisitionMemo {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisAcquisitionMemo{client: client, key: key, ttl: ttl}
}

func (m *RedisAcquisitionMemo) Load(ctx context.Context) ([]schedule.Game, bool, error) {
	raw, err := m.client.Get(ctx, m.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get acquisition memo: %w", err)
	}

	var rows []memoGame
	if err := jsoniter.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("decode acquisition memo: %w", err)
	}

	games := make([]schedule.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, schedule.Game{
			Date:     row.Date,
			Time:     row.Time,
			HomeTeam: row.HomeTeam,
			AwayTeam: row.AwayTeam,
			League:   row.League,
			HomeLogo: row.HomeLogo,
			AwayLogo: row.AwayLogo,
			HomeOdds: row.HomeOdds,
			AwayOdds: row.AwayOdds,
		})
	}
	return games, true, nil
}

func (m *RedisAcquisitionMemo) Store(ctx context.Context, games []schedule.Game) error {
	rows := make([]memoGame, 0, len(games))
	for _, g := range games {
		rows = append(rows, memoGame{
			Date:     g.Date,
			Time:     g.Time,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			League:   g.League,
			HomeLogo: g.HomeLogo,
			AwayLogo: g.AwayLogo,
			HomeOdds: g.HomeOdds,
			AwayOdds: g.AwayOdds,
		})
	}

	raw, err := jsoniter.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode acquisition memo: %w", err)
	}
	if err := m.client.Set(ctx, m.key, raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("set acquisition memo: %w", err)
	}
	return nil
}

func (m *RedisAcquisitionMemo) Clear(ctx context.Context) error {
	if err := m.client.Del(ctx, m.key).Err(); err != nil {
		return fmt.Errorf("delete acquisition memo: %w", err)
	}
	return nil
}
