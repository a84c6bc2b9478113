package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type HistoryBackend string

const (
	BackendMemory   HistoryBackend = "memory"
	BackendRedis    HistoryBackend = "redis"
	BackendPostgres HistoryBackend = "postgres"
	BackendSqlite   HistoryBackend = "sqlite"
	BackendBadger   HistoryBackend = "badger"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string
	CORSOrigins []string

	ORSAPIKey     string
	ORSBaseURL    string
	ORSRatePerMin int

	HistoryBackend   HistoryBackend
	HistoryKeyPrefix string
	HistoryMaxItems  int
	PathCacheTTL     time.Duration

	RedisAddr   string
	DatabaseURL string
	SqlitePath  string
	BadgerDir   string

	LogLevel string
	LogFile  string
}

// Load reads Config from the environment. Call godotenv.Load first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:             Get("PORT", "8080"),
		CORSOrigins:      splitList(Get("CORS_ORIGINS", "*")),
		ORSAPIKey:        strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSBaseURL:       Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		HistoryBackend:   HistoryBackend(strings.ToLower(Get("HISTORY_BACKEND", string(BackendMemory)))),
		HistoryKeyPrefix: Get("HISTORY_KEY_PREFIX", "traffic_search_history_"),
		RedisAddr:        Get("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SqlitePath:       Get("SQLITE_PATH", "data/history.db"),
		BadgerDir:        Get("BADGER_DIR", "data/badger"),
		LogLevel:         Get("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.ORSRatePerMin, err = intEnv("ORS_RATE_PER_MIN", 40); err != nil {
		return Config{}, err
	}
	if cfg.HistoryMaxItems, err = intEnv("HISTORY_MAX_ITEMS", 50); err != nil {
		return Config{}, err
	}
	if cfg.HistoryMaxItems < 1 {
		return Config{}, errors.New("load config: HISTORY_MAX_ITEMS must be positive")
	}

	ttl := Get("PATH_CACHE_TTL", "24h")
	if cfg.PathCacheTTL, err = time.ParseDuration(ttl); err != nil {
		return Config{}, fmt.Errorf("load config: PATH_CACHE_TTL %q: %w", ttl, err)
	}
	if cfg.PathCacheTTL <= 0 {
		return Config{}, fmt.Errorf("load config: PATH_CACHE_TTL %q must be positive", ttl)
	}

	switch cfg.HistoryBackend {
	case BackendMemory, BackendRedis, BackendSqlite, BackendBadger:
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, errors.New("load config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown HISTORY_BACKEND %q", cfg.HistoryBackend)
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("load config: %s %q: %w", key, raw, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
