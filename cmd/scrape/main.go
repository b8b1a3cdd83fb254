package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/schedule-odds/external/krepsinis"
	"github.com/riskibarqy/schedule-odds/internal/app"
	"github.com/riskibarqy/schedule-odds/internal/config"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

type gameJSON struct {
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	HomeTeam string   `json:"homeTeam"`
	AwayTeam string   `json:"awayTeam"`
	League   string   `json:"league"`
	HomeLogo string   `json:"homeLogo,omitempty"`
	AwayLogo string   `json:"awayLogo,omitempty"`
	HomeOdds *float64 `json:"homeOdds"`
	AwayOdds *float64 `json:"awayOdds"`
}

type scheduleJSON struct {
	Games       []gameJSON `json:"games"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSONWriter(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL")), os.Stderr).Named("scrape")
	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

// run scrapes one page (-page N) or every page and writes the schedule as JSON.
// Storage is never touched.
func run(ctx context.Context, args []string, stdout io.Writer, logger *logging.Logger) error {
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	page := fs.Int("page", 0, "scrape a single page; 0 scrapes every page")
	sourceURL := fs.String("source", envOr("SCHEDULE_SOURCE_URL", krepsinis.DefaultScheduleURL), "schedule page URL")
	origin := fs.String("origin", envOr("SCHEDULE_SOURCE_ORIGIN", krepsinis.DefaultOrigin), "origin used to absolutize logo URLs")
	relays := fs.String("relays", os.Getenv("SCHEDULE_RELAYS"), "comma separated relay templates")
	timeout := fs.Duration("timeout", 15*time.Second, "per relay attempt timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *page < 0 {
		return fmt.Errorf("page must be >= 0")
	}

	cfg := config.Config{
		ScheduleSourceURL:    *sourceURL,
		ScheduleSourceOrigin: *origin,
		ScheduleUserAgent:    envOr("SCHEDULE_USER_AGENT", "Mozilla/5.0"),
		ScheduleRelayTimeout: *timeout,
	}
	for _, relay := range strings.Split(*relays, ",") {
		if relay = strings.TrimSpace(relay); relay != "" {
			cfg.ScheduleRelays = append(cfg.ScheduleRelays, relay)
		}
	}

	source, err := app.NewScheduleSource(cfg, logger, nil)
	if err != nil {
		return err
	}

	var out schedule.Page
	if *page > 0 {
		out, err = source.FetchPage(ctx, *page)
		if err != nil {
			return err
		}
	} else {
		acquirer := usecase.NewScheduleAcquirer(source, usecase.ScheduleAcquirerConfig{Logger: logger})
		games, err := acquirer.FetchAll(ctx)
		if err != nil {
			return err
		}
		games = schedule.Deduplicate(games)
		out = schedule.Page{Games: games, CurrentPage: 1, TotalPages: 1}
		logger.InfoContext(ctx, "scraped full schedule", "games", len(games))
	}

	enc := sonic.ConfigStd.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(out))
}

func toJSON(page schedule.Page) scheduleJSON {
	games := make([]gameJSON, 0, len(page.Games))
	for _, g := range page.Games {
		games = append(games, gameJSON{
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
	return scheduleJSON{Games: games, CurrentPage: page.CurrentPage, TotalPages: page.TotalPages}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
