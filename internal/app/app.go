package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/schedule-odds/external/krepsinis"
	"github.com/riskibarqy/schedule-odds/external/oddsapi"
	"github.com/riskibarqy/schedule-odds/internal/config"
	"github.com/riskibarqy/schedule-odds/internal/domain/odds"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/infrastructure/memo"
	cacherepo "github.com/riskibarqy/schedule-odds/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/schedule-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/schedule-odds/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/schedule-odds/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/schedule-odds/internal/platform/cache"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
	"github.com/riskibarqy/schedule-odds/internal/platform/metrics"
	"github.com/riskibarqy/schedule-odds/internal/platform/resilience"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

// CloseFunc releases resources acquired while building the server.
type CloseFunc func() error

// Services holds the wired use cases.
type Services struct {
	Acquirer   *usecase.ScheduleAcquirer
	Schedule   *usecase.ScheduleService
	Odds       *usecase.OddsService
	Enrichment *usecase.EnrichmentService
	Metrics    *metrics.Registry
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, CloseFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, closeFn, err := NewServices(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		oddsReader httpapi.OddsReader
		enricher   httpapi.Enricher
	)
	if services.Odds != nil {
		oddsReader = services.Odds
		enricher = services.Enrichment
	}

	handler := httpapi.NewHandler(services.Schedule, oddsReader, enricher, logger.Named("httpapi"))
	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if services.Metrics != nil {
		routerCfg.Metrics = services.Metrics.Handler()
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger.Named("http"), routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeFn, nil
}

// NewServices wires repositories, external clients and use cases from config.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, CloseFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var registry *metrics.Registry
	if cfg.MetricsEnabled {
		registry = metrics.New()
	}

	closers := make([]CloseFunc, 0, 2)
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	scheduleRepo, oddsRepo, closeRepos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeRepos)

	var sharedMemo usecase.SharedAcquisitionMemo
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, acquisition memo stays in-process", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			sharedMemo = memo.NewRedisAcquisitionMemo(client, memo.DefaultKey, cfg.ScheduleMemoTTL)
			closers = append(closers, client.Close)
		}
	}

	source, err := NewScheduleSource(cfg, logger, registry)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	acquirer := usecase.NewScheduleAcquirer(source, usecase.ScheduleAcquirerConfig{
		MemoTTL:    cfg.ScheduleMemoTTL,
		SharedMemo: sharedMemo,
		Logger:     logger.Named("acquirer"),
		Metrics:    registry,
	})
	scheduleSvc := usecase.NewScheduleService(scheduleRepo, acquirer, usecase.ScheduleServiceConfig{
		TTL:       cfg.ScheduleTTL,
		BatchSize: cfg.ScheduleInsertBatch,
		Logger:    logger.Named("schedule"),
		Metrics:   registry,
	})

	services := &Services{
		Acquirer: acquirer,
		Schedule: scheduleSvc,
		Metrics:  registry,
	}

	if !cfg.OddsEnabled {
		logger.Info("odds provider disabled", "reason", "ODDS_ENABLED=false")
		return services, closeAll, nil
	}

	provider := oddsapi.NewClient(oddsapi.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.OddsTimeout},
		BaseURL:    cfg.OddsAPIBaseURL,
		APIKey:     cfg.OddsAPIKey,
		Regions:    cfg.OddsRegions,
		Timeout:    cfg.OddsTimeout,
		MaxRetries: cfg.OddsMaxRetries,
		Logger:     logger.Named("oddsapi"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OddsCircuitEnabled,
			FailureThreshold: cfg.OddsCircuitFailureCount,
			OpenTimeout:      cfg.OddsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OddsCircuitHalfOpenMaxReq,
		},
	})
	services.Odds = usecase.NewOddsService(oddsRepo, provider, usecase.OddsServiceConfig{
		SportKey: cfg.OddsSportKey,
		TTL:      cfg.OddsTTL,
		Logger:   logger.Named("odds"),
		Metrics:  registry,
	})
	services.Enrichment = usecase.NewEnrichmentService(services.Odds, scheduleSvc, usecase.EnrichmentServiceConfig{
		SettleDelay: cfg.OddsSettleDelay,
		Logger:      logger.Named("enrichment"),
	})

	return services, closeAll, nil
}

// NewScheduleSource builds the relay-backed schedule scraper.
func NewScheduleSource(cfg config.Config, logger *logging.Logger, registry *metrics.Registry) (*krepsinis.Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	templates := cfg.ScheduleRelays
	if len(templates) == 0 {
		templates = krepsinis.DefaultRelayTemplates
	}
	relays, err := krepsinis.ParseRelays(templates)
	if err != nil {
		return nil, fmt.Errorf("parse schedule relays: %w", err)
	}

	fetcher := krepsinis.NewFetcher(krepsinis.FetcherConfig{
		HTTPClient:     &http.Client{},
		Relays:         relays,
		UserAgent:      cfg.ScheduleUserAgent,
		AttemptTimeout: cfg.ScheduleRelayTimeout,
		Logger:         logger.Named("relay"),
		Metrics:        registry,
	})

	return krepsinis.NewClient(krepsinis.ClientConfig{
		ScheduleURL: cfg.ScheduleSourceURL,
		Fetcher:     fetcher,
		Parser:      krepsinis.NewParser(cfg.ScheduleSourceOrigin),
		Logger:      logger.Named("krepsinis"),
		Metrics:     registry,
	}), nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (schedule.Repository, odds.Repository, CloseFunc, error) {
	var (
		scheduleRepo schedule.Repository
		oddsRepo     odds.Repository
		closeFn      CloseFunc = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, snapshot is lost on restart")
		scheduleRepo = memory.NewScheduleRepository()
		oddsRepo = memory.NewOddsRepository()
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("connected to postgres", "db_name", dbNameFromURL(cfg.DBURL))
		scheduleRepo = postgres.NewScheduleRepository(db)
		oddsRepo = postgres.NewOddsRepository(db)
		closeFn = db.Close
	}

	if cfg.CacheEnabled {
		scheduleRepo = cacherepo.NewScheduleRepository(scheduleRepo, basecache.NewStore(cfg.CacheTTL))
		oddsRepo = cacherepo.NewOddsRepository(oddsRepo, basecache.NewStore(cfg.CacheTTL))
	}

	return scheduleRepo, oddsRepo, closeFn, nil
}
