// Package config provides Viper-based configuration for hackerstories.
//
// Values come from, in increasing precedence: built-in defaults, an
// optional .hackerstories.yaml, HACKERSTORIES_* environment variables
// (a .env file in the working directory is loaded first) and command
// line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/persist"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "HACKERSTORIES"

// Persistence backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the complete hackerstories configuration.
type Config struct {
	// Endpoint is the search URL fetched at session start. When empty it
	// is built from fetch.DefaultBaseURL and DefaultQuery.
	Endpoint     string        `mapstructure:"endpoint"`
	DefaultQuery string        `mapstructure:"default_query"`
	QueryKey     string        `mapstructure:"query_key"`
	Persist      PersistConfig `mapstructure:"persist"`
	Fetch        FetchConfig   `mapstructure:"fetch"`
	Serve        ServeConfig   `mapstructure:"serve"`
}

// PersistConfig selects where the query and the transition log live.
type PersistConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisAddr  string `mapstructure:"redis_addr"`
}

// FetchConfig tunes the HTTP fetcher.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Strict        bool          `mapstructure:"strict"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a Viper instance with defaults, the config file search
// path and environment binding set up. cfgFile, when non-empty, is used
// instead of searching for .hackerstories.yaml.
func New(cfgFile string) *viper.Viper {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".hackerstories")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hackerstories")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads the config file (if any) and the environment into a Config.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// ResolvedEndpoint returns Endpoint, or the default search URL for
// DefaultQuery when Endpoint is unset.
func (c *Config) ResolvedEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fetch.Endpoint(fetch.DefaultBaseURL, c.DefaultQuery)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("default_query", "React")
	v.SetDefault("query_key", persist.DefaultKey)

	v.SetDefault("persist.backend", BackendSQLite)
	v.SetDefault("persist.sqlite_path", "hackerstories.db")
	v.SetDefault("persist.redis_addr", "localhost:6379")

	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.rate_per_second", 0.0)
	v.SetDefault("fetch.strict", false)

	v.SetDefault("serve.addr", ":8080")
}

func validate(cfg *Config) error {
	switch cfg.Persist.Backend {
	case BackendSQLite:
		if cfg.Persist.SQLitePath == "" {
			return fmt.Errorf("persist.sqlite_path is required for the sqlite backend")
		}
	case BackendRedis:
		if cfg.Persist.RedisAddr == "" {
			return fmt.Errorf("persist.redis_addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown persist.backend %q (want sqlite, redis or memory)", cfg.Persist.Backend)
	}

	if cfg.QueryKey == "" {
		return fmt.Errorf("query_key must not be empty")
	}
	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if cfg.Fetch.RatePerSecond < 0 {
		return fmt.Errorf("fetch.rate_per_second must not be negative")
	}
	return nil
}
