// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers a YAML file and environment variables over the defaults.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/talentscope/internal/domain/trend"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SeedFile is an optional YAML dataset loaded at startup.
	SeedFile string `koanf:"seed_file"`

	// TrendEpsilon is the noise band on the 1-10 scale for growth trends.
	TrendEpsilon float64 `koanf:"trend_epsilon"`

	// TrendWindow is the number of evaluations averaged on each side of a
	// trend comparison. 1 compares the latest two records.
	TrendWindow int `koanf:"trend_window"`

	// MaxCandidateLimit caps GET /candidates?limit.
	MaxCandidateLimit int `koanf:"max_candidate_limit"`

	// Metrics configures the Prometheus collectors served on /healthz.
	Metrics MetricsConfig `koanf:"metrics"`
}

// MetricsConfig names and tunes the metrics collectors.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
	Prefix    string `koanf:"prefix"`

	// RefreshInterval paces the system gauge updater, e.g. "10s".
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// LatencyBuckets overrides the default histogram buckets (milliseconds).
	LatencyBuckets []float64 `koanf:"latency_buckets"`

	// Labels are constant labels attached to every collector.
	Labels map[string]string `koanf:"labels"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		TrendEpsilon:      trend.DefaultEpsilon,
		TrendWindow:       trend.DefaultWindow,
		MaxCandidateLimit: 100,
		Metrics: MetricsConfig{
			Enabled:         true,
			Namespace:       "talentscope",
			Subsystem:       "evaluations",
			RefreshInterval: 10 * time.Second,
		},
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.TrendEpsilon < 0 {
		return fmt.Errorf("%w: trend_epsilon must be >= 0, got %v", ErrInvalidConfig, c.TrendEpsilon)
	}
	if c.TrendWindow < 1 {
		return fmt.Errorf("%w: trend_window must be >= 1, got %d", ErrInvalidConfig, c.TrendWindow)
	}
	if c.MaxCandidateLimit < 1 {
		return fmt.Errorf("%w: max_candidate_limit must be >= 1, got %d", ErrInvalidConfig, c.MaxCandidateLimit)
	}
	if c.Metrics.RefreshInterval <= 0 {
		return fmt.Errorf("%w: metrics.refresh_interval must be > 0, got %s", ErrInvalidConfig, c.Metrics.RefreshInterval)
	}
	if strings.TrimSpace(c.Metrics.Namespace) == "" {
		return fmt.Errorf("%w: metrics.namespace must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
