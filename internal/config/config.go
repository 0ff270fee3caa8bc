// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting the server needs at startup.
type Config struct {
	Port          string
	Driver        string
	DatabasePath  string
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	BcryptCost    int
	AuthRateLimit int
	// TrustProxy makes the server take the client address from
	// X-Forwarded-For / X-Real-IP. Enable it only behind a proxy that sets them.
	TrustProxy bool
}

// Load reads the configuration from environment variables, applying defaults
// and rejecting values the server cannot run with.
func Load() (Config, error) {
	cfg := Config{
		Port:         envOrDefault("PORT", "8080"),
		Driver:       envOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabasePath: envOrDefault("DATABASE_PATH", "todo.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return Config{}, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	switch cfg.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q (expected %s or %s)", cfg.Driver, DriverSQLite, DriverPostgres)
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	cost, err := strconv.Atoi(envOrDefault("BCRYPT_COST", "12"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < 4 || cost > 14 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cost)
	}
	cfg.BcryptCost = cost

	limit, err := strconv.Atoi(envOrDefault("AUTH_RATE_LIMIT", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}
	if limit <= 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", limit)
	}
	cfg.AuthRateLimit = limit

	trust, err := strconv.ParseBool(envOrDefault("TRUST_PROXY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}
	cfg.TrustProxy = trust

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
