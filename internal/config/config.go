// Package config loads server settings.
//
// Settings are applied in three layers, each overriding the one before:
//
//  1. Defaults (Default)
//  2. An optional YAML file named by CONFIG_FILE
//  3. Environment variables (PORT, DB_PATH, JWT_SECRET, ...)
//
// Environment variables win so a deployment can tweak one value without
// editing the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers accepted by StoreDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime settings for the server.
type Config struct {
	Port int `yaml:"port"`

	// StoreDriver picks the persistence gateway: sqlite, postgres or memory.
	StoreDriver string `yaml:"store_driver"`
	DBPath      string `yaml:"db_path"`      // sqlite file
	DatabaseURL string `yaml:"database_url"` // postgres DSN

	// JWTSecret signs session tokens. Leave it unset and every restart
	// invalidates existing sessions, since a random one is generated.
	JWTSecret string `yaml:"jwt_secret"`

	// NotificationDwell is how long a user looks at their notifications
	// before they are all marked read.
	NotificationDwell time.Duration `yaml:"notification_dwell"`

	// FeedRefresh is the polling interval handed to clients.
	FeedRefresh time.Duration `yaml:"feed_refresh"`

	SeedSampleData bool   `yaml:"seed_sample_data"`
	NotifyOnFollow bool   `yaml:"notify_on_follow"`
	LogLevel       string `yaml:"log_level"`
}

// Default returns development defaults.
func Default() Config {
	return Config{
		Port:              8080,
		StoreDriver:       DriverSQLite,
		DBPath:            "data/socialhub.db",
		NotificationDwell: 2 * time.Second,
		FeedRefresh:       30 * time.Second,
		SeedSampleData:    true,
		NotifyOnFollow:    true,
		LogLevel:          "info",
	}
}

// Load builds a Config from defaults, the CONFIG_FILE overlay and the
// process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile decodes the YAML file over cfg. Keys missing from the file keep
// their current value.
func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("STORE_DRIVER"); v != "" {
		c.StoreDriver = v
	}
	if v := getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"NOTIFICATION_DWELL", &c.NotificationDwell},
		{"FEED_REFRESH", &c.FeedRefresh},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"SEED_SAMPLE_DATA", &c.SeedSampleData},
		{"NOTIFY_ON_FOLLOW", &c.NotifyOnFollow},
	}
	for _, f := range flags {
		v := getenv(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", f.key, v, err)
		}
		*f.dst = parsed
	}
	return nil
}

// Validate reports the first setting that can't work.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("config: sqlite store needs db_path")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: postgres store needs database_url")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	if c.NotificationDwell < 0 {
		return fmt.Errorf("config: notification_dwell must not be negative")
	}
	if c.FeedRefresh <= 0 {
		return fmt.Errorf("config: feed_refresh must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
