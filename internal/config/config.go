// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP settings
	Port string

	// Sources settings
	SourcesConfigPath string

	// Database settings (optional; in-memory snapshot store when empty)
	DatabaseURL string

	// Feed fetching
	FeedTimeout   time.Duration
	FetchRate     float64 // outbound feed requests per second
	FetchBurst    int
	RetryAttempts int
	RetryDelay    time.Duration

	// Matching
	GroupLimit            int     // story groups per snapshot
	MatchThreshold        float64 // minimum similarity for an anchor match
	OtherSourcesThreshold float64 // minimum similarity for supporting coverage
	OtherSourcesCap       int
	PerBiasCap            int // most recent articles considered per bias
	MinPoliticalArticles  int // below this the political filter is bypassed

	// Snapshot refresh
	RefreshInterval time.Duration

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Port:                  "8080",
		SourcesConfigPath:     "configs/sources.yaml",
		FeedTimeout:           12 * time.Second,
		FetchRate:             10,
		FetchBurst:            5,
		RetryAttempts:         3,
		RetryDelay:            2 * time.Second,
		GroupLimit:            15,
		MatchThreshold:        0.3,
		OtherSourcesThreshold: 0.25,
		OtherSourcesCap:       15,
		PerBiasCap:            80,
		MinPoliticalArticles:  5,
		RefreshInterval:       30 * time.Minute,
	}

	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := getEnvIntOrDefault("FEED_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.FeedTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("REFRESH_INTERVAL_MIN", 0); v > 0 {
		cfg.RefreshInterval = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("GROUP_LIMIT", 0); v > 0 {
		cfg.GroupLimit = v
	}
	if v := getEnvIntOrDefault("PER_BIAS_CAP", 0); v > 0 {
		cfg.PerBiasCap = v
	}
	if v := getEnvIntOrDefault("MIN_POLITICAL_ARTICLES", 0); v > 0 {
		cfg.MinPoliticalArticles = v
	}
	if v := getEnvFloatOrDefault("MATCH_THRESHOLD", 0); v > 0 {
		cfg.MatchThreshold = v
	}
	if v := getEnvFloatOrDefault("OTHER_SOURCES_THRESHOLD", 0); v > 0 {
		cfg.OtherSourcesThreshold = v
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.SourcesConfigPath == "" {
		return fmt.Errorf("SOURCES_CONFIG_PATH is required")
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be within [0,1]")
	}
	if c.OtherSourcesThreshold < 0 || c.OtherSourcesThreshold > 1 {
		return fmt.Errorf("OTHER_SOURCES_THRESHOLD must be within [0,1]")
	}
	if c.GroupLimit <= 0 {
		return fmt.Errorf("GROUP_LIMIT must be positive")
	}
	if c.PerBiasCap <= 0 {
		return fmt.Errorf("PER_BIAS_CAP must be positive")
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT_SECONDS must be positive")
	}
	return nil
}
