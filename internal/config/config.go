package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the Ad-Insights application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ClickHouse ClickHouseConfig
	Cache      CacheConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig configures the optional ClickHouse row store used by
// high-volume installs instead of the Postgres row table.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	User     string
	Password string
}

// CacheConfig configures the query-result cache.
type CacheConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("AD_INSIGHTS_HTTP_ADDR", ":8080"),
			Env:             getEnv("AD_INSIGHTS_ENV", "development"),
			ShutdownTimeout: getDurationEnv("AD_INSIGHTS_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("AD_INSIGHTS_DB_HOST", "localhost"),
			Port:     getIntEnv("AD_INSIGHTS_DB_PORT", 5432),
			User:     getEnv("AD_INSIGHTS_DB_USER", "adinsights"),
			Password: getEnv("AD_INSIGHTS_DB_PASSWORD", "adinsights_secret"),
			DBName:   getEnv("AD_INSIGHTS_DB_NAME", "adinsights"),
			SSLMode:  getEnv("AD_INSIGHTS_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("AD_INSIGHTS_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("AD_INSIGHTS_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("AD_INSIGHTS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("AD_INSIGHTS_REDIS_PASSWORD", ""),
			DB:       getIntEnv("AD_INSIGHTS_REDIS_DB", 0),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getBoolEnv("AD_INSIGHTS_CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("AD_INSIGHTS_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("AD_INSIGHTS_CLICKHOUSE_DB", "adinsights"),
			User:     getEnv("AD_INSIGHTS_CLICKHOUSE_USER", "default"),
			Password: getEnv("AD_INSIGHTS_CLICKHOUSE_PASSWORD", ""),
		},
		Cache: CacheConfig{
			TTL:           getDurationEnv("AD_INSIGHTS_CACHE_TTL", 15*time.Minute),
			PurgeInterval: getDurationEnv("AD_INSIGHTS_CACHE_PURGE_INTERVAL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("AD_INSIGHTS_LOG_LEVEL", "info"),
			Format: getEnv("AD_INSIGHTS_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolEnv("AD_INSIGHTS_METRICS_ENABLED", true),
			Path:      getEnv("AD_INSIGHTS_METRICS_PATH", "/metrics"),
			Namespace: getEnv("AD_INSIGHTS_METRICS_NAMESPACE", "ad_insights"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("AD_INSIGHTS_CACHE_TTL must be positive")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Addr == "" {
		return fmt.Errorf("AD_INSIGHTS_CLICKHOUSE_ADDR is required when ClickHouse is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
