// Package config loads application configuration from environment variables.
// All variables use the SPIRAL_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Scheduler   SchedulerConfig
	Log         LogConfig
	CatalogPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL runs
// the server on the in-memory store.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Dragonfly/Redis connection settings. An empty URL
// disables timetable caching.
type CacheConfig struct {
	URL string
}

// SchedulerConfig holds scheduling engine defaults.
type SchedulerConfig struct {
	ReviewInterval int // every k-th session is a review
	MaxScanDays    int // placement day-scan cap
	CacheTTL       int // cached timetable lifetime, minutes
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// Load reads configuration from environment variables with SPIRAL_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SPIRAL_SERVER_PORT", 8080),
			Host: envStr("SPIRAL_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("SPIRAL_DATABASE_URL", ""),
			MaxConns: envInt("SPIRAL_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("SPIRAL_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL: envStr("SPIRAL_CACHE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			ReviewInterval: envInt("SPIRAL_SCHEDULER_REVIEW_INTERVAL", 10),
			MaxScanDays:    envInt("SPIRAL_SCHEDULER_MAX_SCAN_DAYS", 730),
			CacheTTL:       envInt("SPIRAL_SCHEDULER_CACHE_TTL", 15),
		},
		Log: LogConfig{
			Level:     envStr("SPIRAL_LOG_LEVEL", "info"),
			Format:    envStr("SPIRAL_LOG_FORMAT", "json"),
			AddSource: envBool("SPIRAL_LOG_ADD_SOURCE", false),
		},
		CatalogPath: envStr("SPIRAL_CATALOG_PATH", "./catalog"),
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("SPIRAL_CATALOG_PATH is required")
	}
	if c.Scheduler.ReviewInterval < 1 {
		return fmt.Errorf("SPIRAL_SCHEDULER_REVIEW_INTERVAL must be >= 1, got %d", c.Scheduler.ReviewInterval)
	}
	if c.Scheduler.MaxScanDays < 1 {
		return fmt.Errorf("SPIRAL_SCHEDULER_MAX_SCAN_DAYS must be >= 1, got %d", c.Scheduler.MaxScanDays)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SPIRAL_SERVER_PORT must be a valid port, got %d", c.Server.Port)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
