// Package config provides environment configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all environment configuration for the application.
type Config struct {
	DBDriver        string        `env:"REGISTRY_DB_DRIVER"    envDefault:"sqlite"`
	DBPath          string        `env:"REGISTRY_DB"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	Addr            string        `env:"REGISTRY_ADDR"         envDefault:":3000"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	EventStream     string        `env:"REGISTRY_EVENT_STREAM" envDefault:"person:events"`
	LogLevel        string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"            envDefault:"text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"      envDefault:"10s"`
}

// LoadConfig parses environment variables into Config struct, applies
// overrides in order, and validates the result.
func LoadConfig(overrides ...func(*Config)) (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads the environment without validating, so callers can apply
// overrides first.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// Validate checks that the selected driver has what it needs.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMemory:
		return nil
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
		return nil
	}
	return fmt.Errorf("unknown db driver %q (use sqlite, postgres or memory)", c.DBDriver)
}

// DefaultDBPath is the SQLite file used when REGISTRY_DB is unset.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".person-registry", "registry.db")
}
