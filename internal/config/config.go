// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the server and ledgerctl.
type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string

	LogLevel  string
	LogFormat string

	SchedulerEnabled  bool
	SchedulerInterval time.Duration
	SchedulerTimezone *time.Location

	// WakeSecret signs wake tokens. WakeKeyHash is a bcrypt hash of a static
	// wake key. Either or both may be set; with neither, protected RPCs
	// reject every request.
	WakeSecret   string
	WakeKeyHash  string
	WakeTokenTTL time.Duration

	TracesExporter string
}

// Load reads configuration from environment variables, after loading an
// optional .env file. Every problem found is reported in one error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		Port:        l.str("PORT", "8080"),
		DBDriver:    strings.ToLower(l.str("DB_DRIVER", DriverSQLite)),
		DBPath:      l.str("DB_PATH", "./data/ledger.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel:  strings.ToLower(os.Getenv("LOG_LEVEL")),
		LogFormat: strings.ToLower(l.str("LOG_FORMAT", "text")),

		SchedulerEnabled:  l.boolean("SCHEDULER_ENABLED", true),
		SchedulerInterval: l.duration("SCHEDULER_INTERVAL", time.Hour),
		SchedulerTimezone: l.location("SCHEDULER_TIMEZONE", time.UTC),

		WakeSecret:   os.Getenv("WAKE_SECRET"),
		WakeKeyHash:  os.Getenv("WAKE_KEY_HASH"),
		WakeTokenTTL: l.duration("WAKE_TOKEN_TTL", 24*time.Hour),

		TracesExporter: strings.ToLower(l.str("OTEL_TRACES_EXPORTER", "none")),
	}

	if err := cfg.validate(l.errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks that the configuration is usable. errs carries problems
// already found while parsing.
func (c *Config) validate(errs []string) error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, "DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if c.SchedulerInterval <= 0 {
		errs = append(errs, "SCHEDULER_INTERVAL must be positive")
	}

	if c.WakeSecret != "" && len(c.WakeSecret) < 16 {
		errs = append(errs, "WAKE_SECRET must be at least 16 characters")
	}
	if c.WakeTokenTTL <= 0 {
		errs = append(errs, "WAKE_TOKEN_TTL must be positive")
	}

	if c.TracesExporter != "none" && c.TracesExporter != "stdout" {
		errs = append(errs, fmt.Sprintf("OTEL_TRACES_EXPORTER must be none or stdout, got %q", c.TracesExporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// loader reads typed values and collects parse errors.
type loader struct {
	errs []string
}

func (l *loader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (l *loader) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Sprintf("%s must be a boolean, got %q", key, v))
		return def
	}
	return b
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Sprintf("%s must be a duration like 30m or 1h, got %q", key, v))
		return def
	}
	return d
}

func (l *loader) location(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		l.errs = append(l.errs, fmt.Sprintf("%s is not a known time zone: %q", key, v))
		return def
	}
	return loc
}
