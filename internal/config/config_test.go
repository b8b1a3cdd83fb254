package config

import (
	"testing"
	"time"
)

// baseEnv sets the minimum environment for Load to succeed.
func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
	t.Setenv("DB_URL", "")
	t.Setenv("ODDS_ENABLED", "true")
	t.Setenv("ODDS_API_KEY", "test-key")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	baseEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScheduleSourceURL != "https://www.krepsinis.net/tvarkarastis/eurolyga" {
		t.Fatalf("unexpected schedule url: %q", cfg.ScheduleSourceURL)
	}
	if cfg.ScheduleTTL != 6*time.Hour || cfg.ScheduleMemoTTL != 5*time.Minute {
		t.Fatalf("unexpected schedule ttls: %s / %s", cfg.ScheduleTTL, cfg.ScheduleMemoTTL)
	}
	if cfg.ScheduleRelayTimeout != 15*time.Second || cfg.ScheduleInsertBatch != 100 {
		t.Fatalf("unexpected relay timeout or batch: %s / %d", cfg.ScheduleRelayTimeout, cfg.ScheduleInsertBatch)
	}
	if len(cfg.ScheduleRelays) != 0 {
		t.Fatalf("expected no relay override by default, got %v", cfg.ScheduleRelays)
	}
	if cfg.OddsTTL != 24*time.Hour || cfg.OddsSettleDelay != 2*time.Second {
		t.Fatalf("unexpected odds timings: %s / %s", cfg.OddsTTL, cfg.OddsSettleDelay)
	}
	if cfg.OddsSportKey != "basketball_euroleague" || cfg.OddsRegions != "eu" {
		t.Fatalf("unexpected odds sport/regions: %s / %s", cfg.OddsSportKey, cfg.OddsRegions)
	}
	if !cfg.MetricsEnabled || !cfg.CacheEnabled {
		t.Fatalf("expected metrics and cache enabled by default")
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Run("postgres requires DB_URL", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("STORAGE_DRIVER", StorageDriverPostgres)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when DB_URL is missing")
		}
	})

	t.Run("postgres with DB_URL", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("DB_URL", "postgres://localhost:5432/schedule?sslmode=disable")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverPostgres {
			t.Fatalf("expected postgres by default, got %s", cfg.StorageDriver)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown driver")
		}
	})
}

func TestLoad_OddsConfig(t *testing.T) {
	t.Run("enabled requires api key", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ODDS_API_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ODDS_API_KEY is missing")
		}
	})

	t.Run("disabled does not need a key", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ODDS_ENABLED", "false")
		t.Setenv("ODDS_API_KEY", "")
		if _, err := Load(); err != nil {
			t.Fatalf("load config: %v", err)
		}
	})

	t.Run("negative settle delay is allowed", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ODDS_SETTLE_DELAY", "-1s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.OddsSettleDelay >= 0 {
			t.Fatalf("expected negative settle delay, got %s", cfg.OddsSettleDelay)
		}
	})

	t.Run("invalid circuit failure count", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ODDS_CIRCUIT_FAILURE_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for ODDS_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}

func TestLoad_ScheduleConfig(t *testing.T) {
	t.Run("relay list parsing", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("SCHEDULE_RELAYS", " https://a.example/?{url} , https://b.example/{raw} ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.ScheduleRelays) != 2 || cfg.ScheduleRelays[1] != "https://b.example/{raw}" {
			t.Fatalf("unexpected relays: %v", cfg.ScheduleRelays)
		}
	})

	t.Run("batch must be positive", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("SCHEDULE_INSERT_BATCH", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for SCHEDULE_INSERT_BATCH=0")
		}
	})

	t.Run("ttl must be positive", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("SCHEDULE_TTL", "-1h")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative SCHEDULE_TTL")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	baseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	baseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	baseEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	baseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	baseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "schedule-odds-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "schedule-odds-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Run("default wildcard", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_RedisDB(t *testing.T) {
	baseEnv(t)
	t.Setenv("REDIS_DB", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative REDIS_DB")
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := parseLogLevel("WARNING"); got.String() != "warn" {
		t.Fatalf("unexpected level: %s", got.String())
	}
	if got := parseLogLevel("nonsense"); got.String() != "info" {
		t.Fatalf("unexpected fallback level: %s", got.String())
	}
}

func TestLoad_SwaggerDefaultsByEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		value  string
		expect bool
	}{
		{name: "dev default", env: EnvDev, expect: true},
		{name: "prod default", env: EnvProd, expect: false},
		{name: "prod explicit", env: EnvProd, value: "true", expect: true},
		{name: "dev explicit", env: EnvDev, value: "false", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("SWAGGER_ENABLED", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if cfg.SwaggerEnabled != tt.expect {
				t.Fatalf("SwaggerEnabled=%v want=%v", cfg.SwaggerEnabled, tt.expect)
			}
		})
	}
}
