package krepsinis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
)

const DefaultScheduleURL = "https://www.krepsinis.net/tvarkarastis/eurolyga"

type ClientConfig struct {
	ScheduleURL string
	Fetcher     *Fetcher
	Parser      *Parser
	Logger      *logging.Logger
	Metrics     *metrics.Registry
}

// Client scrapes one schedule page at a time. It implements schedule.Source.
type Client struct {
	scheduleURL string
	fetcher     *Fetcher
	parser      *Parser
	logger      *logging.Logger
	metrics     *metrics.Registry
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	scheduleURL := strings.TrimSpace(cfg.ScheduleURL)
	if scheduleURL == "" {
		scheduleURL = DefaultScheduleURL
	}
	parser := cfg.Parser
	if parser == nil {
		parser = NewParser(DefaultOrigin)
	}

	return &Client{
		scheduleURL: scheduleURL,
		fetcher:     cfg.Fetcher,
		parser:      parser,
		logger:      logger,
		metrics:     cfg.Metrics,
	}
}

func (c *Client) FetchPage(ctx context.Context, page int) (schedule.Page, error) {
	if page < 1 {
		return schedule.Page{}, fmt.Errorf("page must be >= 1, got %d", page)
	}

	target, err := c.pageURL(page)
	if err != nil {
		return schedule.Page{}, err
	}

	body, err := c.fetcher.Fetch(ctx, target, page)
	if err != nil {
		return schedule.Page{}, err
	}

	games, total, err := c.parser.Parse(body)
	if err != nil {
		return schedule.Page{}, fmt.Errorf("page %d: %w", page, err)
	}
	c.metrics.PageScraped()
	c.logger.InfoContext(ctx, "schedule page parsed", "page", page, "games", len(games), "total_pages", total)

	return schedule.Page{Games: games, CurrentPage: page, TotalPages: total}, nil
}

func (c *Client) pageURL(page int) (string, error) {
	parsed, err := url.Parse(c.scheduleURL)
	if err != nil {
		return "", fmt.Errorf("parse schedule url: %w", err)
	}
	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
