// Package config loads orchest-fs configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// ScopeConfig carries default scope identifiers so they need not be passed
// on every invocation.
type ScopeConfig struct {
	ProjectUUID  string `mapstructure:"project_uuid"`
	PipelineUUID string `mapstructure:"pipeline_uuid"`
	JobUUID      string `mapstructure:"job_uuid"`
	RunUUID      string `mapstructure:"run_uuid"`
	SnapshotUUID string `mapstructure:"snapshot_uuid"`
}

// Config represents the application configuration.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Roots          []string      `mapstructure:"roots"`
	DefaultDepth   int           `mapstructure:"default_depth"`
	DedupeWindow   time.Duration `mapstructure:"dedupe_window"`
	Scope          ScopeConfig   `mapstructure:"scope"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/orchest/config.yaml
//   - $HOME/.config/orchest/config.yaml
//
// Environment variables are prefixed with ORCHEST_ (e.g. ORCHEST_API_URL).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "orchest"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "orchest"))
	}

	v.SetEnvPrefix("ORCHEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults registers all configuration defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("roots", DefaultRoots)
	v.SetDefault("default_depth", DefaultDepth)
	v.SetDefault("dedupe_window", DefaultDedupeWindow)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "orchest"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "orchest"), nil
}

// StateDir returns $XDG_STATE_HOME/orchest/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "orchest")
}

// WriteDefault writes a default config file if none exists. Returns the
// config file path.
func WriteDefault() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# orchest-fs configuration

# Base URL of the file-management API.
api_url: %s

# Per-request timeout for remote calls.
request_timeout: %s

# Independently cached namespaces.
roots:
  - project-dir
  - data

# Directory levels fetched when a root has no materialized depth yet.
default_depth: %d

# Window during which duplicate operation triggers share one result.
dedupe_window: %s

# Default scope identifiers (flags override these).
scope:
  project_uuid: ""
  pipeline_uuid: ""
  job_uuid: ""
  run_uuid: ""
  snapshot_uuid: ""

# Logging configuration.
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/orchest/orchest-fs.log,
  # "-" means stderr)
  path: ""
`, DefaultAPIURL, DefaultRequestTimeout, DefaultDepth, DefaultDedupeWindow)

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}
