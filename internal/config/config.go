// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from WEDLY_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-access-secret-change-me-now!",
	"your-refresh-secret-change-me-now",
}

// MinSecretLength is the minimum length of each JWT signing secret.
const MinSecretLength = 32

// Config holds the application configuration.
type Config struct {
	DBPath     string `env:"WEDLY_DB_PATH" envDefault:"./data/wedly.db"`
	ServerHost string `env:"WEDLY_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"WEDLY_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"WEDLY_ENV" envDefault:"development"`
	LogLevel   string `env:"WEDLY_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"WEDLY_LOG_FORMAT" envDefault:"text"` // text or json

	// Token signing
	JWTAccessSecret  string `env:"WEDLY_JWT_ACCESS_SECRET,required"`
	JWTRefreshSecret string `env:"WEDLY_JWT_REFRESH_SECRET,required"`
	AccessTTL        int    `env:"WEDLY_ACCESS_TTL" envDefault:"900"`      // seconds
	RefreshTTL       int    `env:"WEDLY_REFRESH_TTL" envDefault:"1209600"` // seconds

	// Object store for microsite images and guest photos. An empty
	// directory disables uploads.
	UploadsDir string `env:"WEDLY_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL string `env:"WEDLY_UPLOADS_URL" envDefault:"/uploads"`

	// Public microsite cache
	RedisURL     string `env:"WEDLY_REDIS_URL"`
	CachePrefix  string `env:"WEDLY_CACHE_PREFIX" envDefault:"wedly:"`
	CacheTTL     int    `env:"WEDLY_CACHE_TTL" envDefault:"600"` // seconds
	CacheMaxSize int    `env:"WEDLY_CACHE_MAX_SIZE" envDefault:"1000"`

	// Web app base URL used in emailed links
	AppURL string `env:"WEDLY_APP_URL" envDefault:"http://localhost:3000"`

	// Maintenance
	SeatSweepSchedule string `env:"WEDLY_SEAT_SWEEP_SCHEDULE" envDefault:"@hourly"`

	// Rate limits, requests per second per client IP
	APIRateLimit    float64 `env:"WEDLY_API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst    int     `env:"WEDLY_API_RATE_BURST" envDefault:"40"`
	PublicRateLimit float64 `env:"WEDLY_PUBLIC_RATE_LIMIT" envDefault:"5"`
	PublicRateBurst int     `env:"WEDLY_PUBLIC_RATE_BURST" envDefault:"10"`

	RequestTimeout int      `env:"WEDLY_REQUEST_TIMEOUT" envDefault:"30"` // seconds
	CORSOrigins    []string `env:"WEDLY_CORS_ORIGINS" envSeparator:","`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if the public microsite cache lives in Redis.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// StorageEnabled returns true if uploads have a backing directory.
func (c Config) StorageEnabled() bool {
	return strings.TrimSpace(c.UploadsDir) != ""
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTTL) * time.Second
}

func (c Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTTL) * time.Second
}

func (c Config) CacheDefaultTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// LoadDotEnv reads .env files into the process environment. Variables
// already set win. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validateSecret("WEDLY_JWT_ACCESS_SECRET", cfg.JWTAccessSecret); err != nil {
		return nil, err
	}
	if err := validateSecret("WEDLY_JWT_REFRESH_SECRET", cfg.JWTRefreshSecret); err != nil {
		return nil, err
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("WEDLY_JWT_ACCESS_SECRET and WEDLY_JWT_REFRESH_SECRET must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("WEDLY_REQUEST_TIMEOUT must be positive")
	}

	return cfg, nil
}

func validateSecret(name, secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%s must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			name, MinSecretLength, len(secret))
	}
	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return fmt.Errorf("%s is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32", name)
		}
	}
	if !hasMinimumEntropy(secret) {
		slog.Warn(name + " has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return nil
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
