package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/schedule-odds/internal/platform/logging"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	StorageDriver              string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	ScheduleSourceURL          string
	ScheduleSourceOrigin       string
	ScheduleRelays             []string
	ScheduleUserAgent          string
	ScheduleRelayTimeout       time.Duration
	ScheduleTTL                time.Duration
	ScheduleMemoTTL            time.Duration
	ScheduleInsertBatch        int
	OddsEnabled                bool
	OddsAPIBaseURL             string
	OddsAPIKey                 string
	OddsSportKey               string
	OddsRegions                string
	OddsTTL                    time.Duration
	OddsSettleDelay            time.Duration
	OddsTimeout                time.Duration
	OddsMaxRetries             int
	OddsCircuitEnabled         bool
	OddsCircuitFailureCount    int
	OddsCircuitOpenTimeout     time.Duration
	OddsCircuitHalfOpenMaxReq  int
	RedisAddr                  string
	RedisPassword              string
	RedisDB                    int
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	// Values already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "schedule-odds-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSchedule(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadOdds(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageDriverPostgres)))
	switch driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", driver, StorageDriverPostgres, StorageDriverMemory)
	}
	cfg.StorageDriver = driver

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if driver == StorageDriverPostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StorageDriverPostgres)
	}

	var err error
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "30s"); err != nil {
		return err
	}

	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	return nil
}

func loadSchedule(cfg *Config) error {
	cfg.ScheduleSourceURL = strings.TrimSpace(getEnv("SCHEDULE_SOURCE_URL", "https://www.krepsinis.net/tvarkarastis/eurolyga"))
	cfg.ScheduleSourceOrigin = strings.TrimSpace(getEnv("SCHEDULE_SOURCE_ORIGIN", "https://www.krepsinis.net"))
	cfg.ScheduleRelays = splitCSV(getEnv("SCHEDULE_RELAYS", ""))
	cfg.ScheduleUserAgent = strings.TrimSpace(getEnv("SCHEDULE_USER_AGENT", "Mozilla/5.0"))

	var err error
	if cfg.ScheduleRelayTimeout, err = getEnvAsDuration("SCHEDULE_RELAY_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.ScheduleTTL, err = getEnvAsDuration("SCHEDULE_TTL", "6h"); err != nil {
		return err
	}
	if cfg.ScheduleMemoTTL, err = getEnvAsDuration("SCHEDULE_MEMO_TTL", "5m"); err != nil {
		return err
	}
	cfg.ScheduleInsertBatch, err = getEnvAsInt("SCHEDULE_INSERT_BATCH", 100)
	if err != nil {
		return fmt.Errorf("parse SCHEDULE_INSERT_BATCH: %w", err)
	}
	if cfg.ScheduleInsertBatch < 1 {
		return fmt.Errorf("SCHEDULE_INSERT_BATCH must be >= 1")
	}
	return nil
}

func loadOdds(cfg *Config) error {
	var err error
	if cfg.OddsEnabled, err = getEnvAsBool("ODDS_ENABLED", "true"); err != nil {
		return err
	}
	cfg.OddsAPIBaseURL = strings.TrimSpace(getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com/v4"))
	cfg.OddsAPIKey = strings.TrimSpace(getEnv("ODDS_API_KEY", ""))
	if cfg.OddsEnabled && cfg.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required when ODDS_ENABLED=true")
	}
	cfg.OddsSportKey = strings.TrimSpace(getEnv("ODDS_SPORT_KEY", "basketball_euroleague"))
	cfg.OddsRegions = strings.TrimSpace(getEnv("ODDS_REGIONS", "eu"))

	if cfg.OddsTTL, err = getEnvAsDuration("ODDS_TTL", "24h"); err != nil {
		return err
	}
	// Negative disables the settle delay.
	cfg.OddsSettleDelay, err = time.ParseDuration(getEnv("ODDS_SETTLE_DELAY", "2s"))
	if err != nil {
		return fmt.Errorf("parse ODDS_SETTLE_DELAY: %w", err)
	}
	if cfg.OddsTimeout, err = getEnvAsDuration("ODDS_TIMEOUT", "10s"); err != nil {
		return err
	}
	cfg.OddsMaxRetries, err = getEnvAsInt("ODDS_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse ODDS_MAX_RETRIES: %w", err)
	}
	if cfg.OddsMaxRetries < 0 {
		return fmt.Errorf("ODDS_MAX_RETRIES must be >= 0")
	}

	if cfg.OddsCircuitEnabled, err = getEnvAsBool("ODDS_CIRCUIT_ENABLED", "true"); err != nil {
		return err
	}
	cfg.OddsCircuitFailureCount, err = getEnvAsInt("ODDS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse ODDS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.OddsCircuitFailureCount < 1 {
		return fmt.Errorf("ODDS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.OddsCircuitOpenTimeout, err = getEnvAsDuration("ODDS_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	cfg.OddsCircuitHalfOpenMaxReq, err = getEnvAsInt("ODDS_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return fmt.Errorf("parse ODDS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.OddsCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("ODDS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration parses a duration that must be > 0.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
