// Package config loads service configuration from environment variables.
// Everything is read once at process start; the rest of the service receives
// plain values and never touches the environment again.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	// Upload handling.
	MaxUploadMB         int64 `env:"MAX_UPLOAD_MB" envDefault:"50"`
	MaxConcurrentQuotes int   `env:"MAX_CONCURRENT_QUOTES" envDefault:"8"`

	// Batch tier schedule. The two lists are paired positionally; a length
	// mismatch is tolerated downstream (discounts collapse to zero).
	BatchTiers []int     `env:"BATCH_TIERS" envSeparator:"," envDefault:"1,10,25,50,100"`
	Discounts  []float64 `env:"DISCOUNTS" envSeparator:"," envDefault:"0,0.05,0.08,0.12,0.15"`

	// Material/machine catalog. The default keeps the catalog purely
	// in-memory so the service runs with zero setup.
	CatalogDBPath        string `env:"CATALOG_DB_PATH" envDefault:":memory:"`
	ProfileOverridesPath string `env:"PROFILE_OVERRIDES_PATH"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config from environment: %w", err)
	}
	if cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.MaxConcurrentQuotes <= 0 {
		return Config{}, fmt.Errorf("MAX_CONCURRENT_QUOTES must be positive, got %d", cfg.MaxConcurrentQuotes)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in development mode.
func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

// MaxUploadBytes returns the upload cap in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB * 1024 * 1024 }
