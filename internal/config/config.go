// Package config defines service configuration and its layered loader.
//
// Conventions:
//   - New(ctx) returns a Config populated with defaults.
//   - Load(ctx) layers an optional YAML file and SKILLHIVE_* env vars on top.
//   - Errors returned from this package wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store drivers accepted by StoreDriver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the backing store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the sqlite file path or the postgres connection string.
	StoreDSN string `koanf:"store_dsn"`

	// RecommendLimit caps the recommendation list.
	RecommendLimit int `koanf:"recommend_limit"`

	// RecommendRankByStrength sorts recommendations by overlap size before truncation.
	RecommendRankByStrength bool `koanf:"recommend_rank_by_strength"`

	// TeammateLimit caps the teammate shortlist; 0 means unlimited.
	TeammateLimit int `koanf:"teammate_limit"`

	// FetchTimeoutMS bounds each store round trip.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// BreakerFailureThreshold is the number of consecutive store failures that opens the breaker.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold"`

	// BreakerTimeoutMS is how long the breaker stays open before probing.
	BreakerTimeoutMS int `koanf:"breaker_timeout_ms"`

	// EnrollRateLimit is the number of enrollment requests allowed per client IP per minute.
	EnrollRateLimit int `koanf:"enroll_rate_limit"`

	// CORSAllowedOrigins is a comma separated list of allowed origins.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults. The context is accepted for symmetry with Load.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		StoreDriver:             DriverMemory,
		RecommendLimit:          6,
		TeammateLimit:           0,
		FetchTimeoutMS:          5_000,
		BreakerFailureThreshold: 5,
		BreakerTimeoutMS:        30_000,
		EnrollRateLimit:         30,
		CORSAllowedOrigins:      "*",
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// BreakerTimeout returns BreakerTimeoutMS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn is required for driver %q", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.RecommendLimit <= 0 {
		return fmt.Errorf("%w: recommend_limit must be positive", ErrInvalidConfig)
	}
	if c.TeammateLimit < 0 {
		return fmt.Errorf("%w: teammate_limit must not be negative", ErrInvalidConfig)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.BreakerFailureThreshold <= 0 {
		return fmt.Errorf("%w: breaker_failure_threshold must be positive", ErrInvalidConfig)
	}
	if c.EnrollRateLimit <= 0 {
		return fmt.Errorf("%w: enroll_rate_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
