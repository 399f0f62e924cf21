// Package config loads daemon configuration from an optional YAML file
// with environment variable overrides. Environment always wins so deploys
// can patch a single value without editing the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all daemon settings
type Config struct {
	// Addr is the HTTP listen address
	Addr string `yaml:"addr"`

	// DatabaseDSN is the Postgres connection string for line history.
	// Empty disables snapshot persistence.
	DatabaseDSN string `yaml:"database_dsn"`

	// RedisAddr is the redis host:port for the injury cache.
	// Empty disables caching; lookups go straight to the provider.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// Provider API keys. An empty key disables that provider.
	OddsAPIKey        string `yaml:"odds_api_key"`
	SportsGameOddsKey string `yaml:"sportsgameodds_api_key"`
	RundownKey        string `yaml:"rundown_api_key"`
	SportsDataKey     string `yaml:"sportsdata_api_key"`

	// InjuryCacheTTL bounds injury report staleness
	InjuryCacheTTL time.Duration `yaml:"injury_cache_ttl"`

	// BookmakerPreference overrides the default ranking order
	BookmakerPreference []string `yaml:"bookmaker_preference"`

	Debug bool `yaml:"debug"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		Addr:           ":8080",
		InjuryCacheTTL: time.Hour,
	}
}

// Load reads configuration from the given YAML file (if path is non-empty
// and the file exists) and then applies environment overrides
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.InjuryCacheTTL <= 0 {
		cfg.InjuryCacheTTL = time.Hour
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "COURTLINE_ADDR")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.OddsAPIKey, "ODDS_API_KEY")
	setString(&c.SportsGameOddsKey, "SPORTSGAMEODDS_API_KEY")
	setString(&c.RundownKey, "RUNDOWN_API_KEY")
	setString(&c.SportsDataKey, "SPORTSDATA_API_KEY")

	if v := os.Getenv("INJURY_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InjuryCacheTTL = d
		}
	}
	if v := os.Getenv("COURTLINE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
