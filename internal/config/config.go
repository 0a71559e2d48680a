// Package config provides configuration loading and validation for the job tracker.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
	BackendRemote   = "remote"
)

var backends = []string{BackendFile, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory, BackendRemote}

// Config is the tracker configuration. It can be loaded from a JSON or YAML
// file and overlaid with JOBTRACKER_* environment variables. All fields are
// optional; missing values come from Defaults.
type Config struct {
	// Storage
	Backend     string `json:"backend,omitempty" yaml:"backend,omitempty" env:"JOBTRACKER_BACKEND"`
	StorageKey  string `json:"storage_key,omitempty" yaml:"storage_key,omitempty" env:"JOBTRACKER_STORAGE_KEY"`
	DataDir     string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" env:"JOBTRACKER_DATA_DIR"`
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" env:"JOBTRACKER_SQLITE_PATH"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" env:"JOBTRACKER_DATABASE_URL"`
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" env:"JOBTRACKER_REDIS_URL"`

	// Remote collection
	APIBaseURL        string   `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty" env:"JOBTRACKER_API_BASE_URL"`
	ResourcePath      string   `json:"resource_path,omitempty" yaml:"resource_path,omitempty" env:"JOBTRACKER_RESOURCE_PATH"`
	Timeout           Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"JOBTRACKER_TIMEOUT"`
	RequestsPerSecond float64  `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" env:"JOBTRACKER_REQUESTS_PER_SECOND"`
	Burst             int      `json:"burst,omitempty" yaml:"burst,omitempty" env:"JOBTRACKER_BURST"`

	// View
	PageSize int `json:"page_size,omitempty" yaml:"page_size,omitempty" env:"JOBTRACKER_PAGE_SIZE"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" env:"JOBTRACKER_LOG_LEVEL"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" env:"JOBTRACKER_LOG_FORMAT"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Backend:           BackendSQLite,
		StorageKey:        "job-applications",
		DataDir:           ".jobtracker",
		ResourcePath:      "/JobApplication",
		Timeout:           Duration(defaultTimeout),
		RequestsPerSecond: 10,
		Burst:             1,
		PageSize:          5,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadConfig loads configuration from a JSON or YAML file. The format is
// chosen by extension; .yaml and .yml are YAML, everything else is JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overlays JOBTRACKER_* environment variables onto c. Variables
// that are not set leave the existing value alone.
func (c *Config) ApplyEnv() error {
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("failed to decode environment: %w", err)
	}
	return nil
}

// Load builds the effective configuration: file (optional), then environment,
// then defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Backend != "" && !isBackend(c.Backend) {
		return fmt.Errorf("config error: 'backend' must be one of %s, got %q", strings.Join(backends, ", "), c.Backend)
	}

	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
		}
	case BackendRemote:
		if c.APIBaseURL == "" {
			return fmt.Errorf("config error: 'api_base_url' is required for the remote backend")
		}
		if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
			return fmt.Errorf("config error: 'api_base_url' must be an http(s) URL")
		}
	}

	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config error: 'requests_per_second' must be non-negative")
	}
	if c.Burst < 0 {
		return fmt.Errorf("config error: 'burst' must be non-negative")
	}

	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.StorageKey == "" {
		result.StorageKey = defaults.StorageKey
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.ResourcePath == "" {
		result.ResourcePath = defaults.ResourcePath
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if result.Burst == 0 {
		result.Burst = defaults.Burst
	}
	if result.PageSize == 0 {
		result.PageSize = defaults.PageSize
	}

	return result
}

// ResolvedSQLitePath is the SQLite database file, defaulting to a file in DataDir.
func (c *Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "jobtracker.db")
}

func isBackend(name string) bool {
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}
