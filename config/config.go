// Package config holds the process-wide configuration for the task service.
// It is loaded once at startup and never mutated afterwards; everything that
// needs a setting receives it explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// maxTokenTTL bounds session token lifetime; tokens must expire within an
// hour of issuance.
const maxTokenTTL = time.Hour

// Config holds runtime settings for the task service.
//
// Fields:
//   - Port: HTTP listen port.
//   - DatabasePath: SQLite database file.
//   - MigrationsDir: directory with .sql migration files.
//   - JWTSecret: HMAC secret for signing session tokens (HS256). Required.
//   - TokenTTL: session token lifetime, at most one hour.
//   - StoreTimeout: upper bound for a single store operation.
//   - CacheType: "memory" or "redis".
//   - RedisAddr / RedisPassword / RedisDB: redis settings when CacheType is "redis".
type Config struct {
	Port          string
	DatabasePath  string
	MigrationsDir string
	JWTSecret     string
	TokenTTL      time.Duration
	StoreTimeout  time.Duration
	CacheType     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load builds a Config from environment variables with development defaults.
// A missing JWT_SECRET or an over-limit TOKEN_TTL_MINUTES is a configuration
// error; callers treat it as fatal at startup.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		DatabasePath:  envOrDefault("DATABASE_PATH", "./task_service.db"),
		MigrationsDir: envOrDefault("MIGRATIONS_DIR", "./database/migrations"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CacheType:     envOrDefault("CACHE_TYPE", "memory"),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	ttlMinutes, err := envInt("TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(ttlMinutes) * time.Minute
	if cfg.TokenTTL <= 0 || cfg.TokenTTL > maxTokenTTL {
		return nil, fmt.Errorf("TOKEN_TTL_MINUTES must be between 1 and %d", int(maxTokenTTL.Minutes()))
	}

	timeoutSeconds, err := envInt("STORE_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, errors.New("STORE_TIMEOUT_SECONDS must be positive")
	}
	cfg.StoreTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.RedisDB, err = envInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// envOrDefault returns the environment variable value or fallback when it is empty.
func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
