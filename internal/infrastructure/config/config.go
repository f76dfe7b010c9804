package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Favorites FavoritesConfig
	Redis     RedisConfig
	Log       LogConfig
	OTLP      OTLPConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
	// DurationMetricMs enables the extra millisecond duration histogram
	DurationMetricMs bool
}

type CatalogConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	PageSize int
}

// Favorites backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

type FavoritesConfig struct {
	Backend string
	File    string
	Key     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level slog.Level
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from the current environment only
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			Port:             getEnv("SERVER_PORT", "8080"),
			ShutdownTimeout:  getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			DurationMetricMs: getEnvBool("HTTP_DURATION_MS_METRIC", false),
		},
		Catalog: CatalogConfig{
			BaseURL:  getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
			Timeout:  getEnvDuration("CATALOG_TIMEOUT", 0),
			CacheTTL: getEnvDuration("CATALOG_CACHE_TTL", time.Hour),
			PageSize: getEnvInt("CATALOG_PAGE_SIZE", 8),
		},
		Favorites: FavoritesConfig{
			Backend: strings.ToLower(getEnv("FAVORITES_BACKEND", BackendFile)),
			File:    getEnv("FAVORITES_FILE", "./data/favorites.json"),
			Key:     getEnv("FAVORITES_KEY", "product-explorer-favorites"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "product-explorer"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(key))); err == nil {
		return level
	}
	return defaultValue
}
