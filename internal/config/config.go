// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AMS_DB_PATH" envDefault:"./data/ams.db"`
	SessionSecret string `env:"AMS_SESSION_SECRET,required"`
	ServerHost    string `env:"AMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AMS_ENV" envDefault:"development"`
	LogLevel      string `env:"AMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"AMS_REDIS_URL"`                        // Optional Redis URL for the fragment cache
	CachePrefix  string `env:"AMS_CACHE_PREFIX" envDefault:"ams:"`   // Redis key prefix
	CacheTTL     int    `env:"AMS_CACHE_TTL" envDefault:"3600"`      // Default cache TTL in seconds
	CacheMaxSize int    `env:"AMS_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// API rate limiting (requests per second per client IP)
	APIRateLimit int `env:"AMS_API_RATE_LIMIT" envDefault:"10"`
	APIRateBurst int `env:"AMS_API_RATE_BURST" envDefault:"20"`

	// Demo mode: periodically wipe the collections and reseed
	DemoMode          bool   `env:"AMS_DEMO_MODE" envDefault:"false"`
	DemoResetSchedule string `env:"AMS_DEMO_RESET_SCHEDULE" envDefault:"@every 24h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("AMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("AMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
