// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the service.
type Config struct {
	// Slack
	SlackToken string
	ChannelID  string

	// Analysis
	LookbackDays int
	Timezone     string

	// Serving
	Port     string
	AppEnv   string
	CacheTTL time.Duration

	// Thread fetches
	ReplyFetchTimeout time.Duration

	// Optional snapshot persistence
	RedisURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SlackToken:        os.Getenv("SLACK_TOKEN"),
		ChannelID:         os.Getenv("CHANNEL_ID"),
		LookbackDays:      getEnvInt("LOOKBACK_DAYS", 30),
		Timezone:          getEnvDefault("TIMEZONE", "America/New_York"),
		Port:              getEnvDefault("PORT", "8080"),
		AppEnv:            getEnvDefault("APP_ENV", "development"),
		CacheTTL:          getEnvDuration("CACHE_TTL", time.Hour),
		ReplyFetchTimeout: getEnvDuration("REPLY_FETCH_TIMEOUT", 10*time.Second),
		RedisURL:          os.Getenv("REDIS_URL"),
		LogLevel:          getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvDefault("LOG_FORMAT", "text"),
	}

	if cfg.SlackToken == "" {
		return nil, fmt.Errorf("SLACK_TOKEN environment variable is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("CHANNEL_ID environment variable is required")
	}
	if cfg.LookbackDays <= 0 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must be positive, got %d", cfg.LookbackDays)
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
