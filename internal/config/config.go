// Package config handles configuration loading for edgarfacts.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	SEC     SECConfig     `mapstructure:"sec"     yaml:"sec"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SECConfig holds EDGAR access settings. The SEC requires a User-Agent
// identifying the caller and rate-limits to 10 requests/second.
type SECConfig struct {
	UserAgent         string `mapstructure:"user_agent"          yaml:"user_agent"`
	CacheDir          string `mapstructure:"cache_dir"           yaml:"cache_dir"`
	SiteBaseURL       string `mapstructure:"site_base_url"       yaml:"site_base_url"`
	DataBaseURL       string `mapstructure:"data_base_url"       yaml:"data_base_url"`
	ResolverTimeoutSec int   `mapstructure:"resolver_timeout_sec" yaml:"resolver_timeout_sec"`
	ArchiveTimeoutSec  int   `mapstructure:"archive_timeout_sec"  yaml:"archive_timeout_sec"`
	DocumentTimeoutSec int   `mapstructure:"document_timeout_sec" yaml:"document_timeout_sec"`
	ExhibitTimeoutSec  int   `mapstructure:"exhibit_timeout_sec"  yaml:"exhibit_timeout_sec"`
	MaxRetries         int   `mapstructure:"max_retries"          yaml:"max_retries"`
	RateLimitPerSec    int   `mapstructure:"rate_limit_per_sec"   yaml:"rate_limit_per_sec"`
}

// ResolverTimeout returns the resolver lookup budget as a duration.
func (s SECConfig) ResolverTimeout() time.Duration {
	return time.Duration(s.ResolverTimeoutSec) * time.Second
}

// ArchiveTimeout returns the flat-archive download budget.
func (s SECConfig) ArchiveTimeout() time.Duration {
	return time.Duration(s.ArchiveTimeoutSec) * time.Second
}

// DocumentTimeout returns the per-document fetch budget.
func (s SECConfig) DocumentTimeout() time.Duration {
	return time.Duration(s.DocumentTimeoutSec) * time.Second
}

// ExhibitTimeout returns the exhibit fetch budget.
func (s SECConfig) ExhibitTimeout() time.Duration {
	return time.Duration(s.ExhibitTimeoutSec) * time.Second
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.edgarfacts/config.yaml (home directory)
//  3. /etc/edgarfacts/config.yaml (system)
//
// Environment variables override config file values.
// Format: EDGARFACTS_<SECTION>_<KEY>, e.g., EDGARFACTS_SEC_USER_AGENT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".edgarfacts"))
	v.AddConfigPath("/etc/edgarfacts")

	v.SetEnvPrefix("EDGARFACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("EDGARFACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// SEC defaults. Timeout budgets are tunable, not protocol requirements.
	v.SetDefault("sec.user_agent", "edgarfacts/1.0 (github.com/seenimoa/edgarfacts)")
	v.SetDefault("sec.cache_dir", filepath.Join("data", "sec"))
	v.SetDefault("sec.site_base_url", "https://www.sec.gov")
	v.SetDefault("sec.data_base_url", "https://data.sec.gov")
	v.SetDefault("sec.resolver_timeout_sec", 60)
	v.SetDefault("sec.archive_timeout_sec", 120)
	v.SetDefault("sec.document_timeout_sec", 90)
	v.SetDefault("sec.exhibit_timeout_sec", 30)
	v.SetDefault("sec.max_retries", 3)
	v.SetDefault("sec.rate_limit_per_sec", 10)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// overrideFromEnv explicitly reads keys that must win over file values.
func overrideFromEnv(cfg *Config) {
	if ua := os.Getenv("SEC_USER_AGENT"); ua != "" {
		cfg.SEC.UserAgent = ua
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
