package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Audit configuration
	AuditTolerance decimal.Decimal // max |calculated - expected| treated as rounding noise

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// One cent of drift is rounding noise, anything above is a discrepancy
		AuditTolerance: decimal.New(1, -2),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if tolerance := os.Getenv("AUDIT_TOLERANCE"); tolerance != "" {
		parsed, err := decimal.NewFromString(tolerance)
		if err != nil {
			return nil, fmt.Errorf("invalid AUDIT_TOLERANCE %q: %w", tolerance, err)
		}
		if parsed.IsNegative() {
			return nil, fmt.Errorf("AUDIT_TOLERANCE must not be negative")
		}
		config.AuditTolerance = parsed
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
