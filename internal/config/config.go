// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// Defaults applied when neither the environment nor a config file sets a value.
const (
	DefaultBaseURL             = "https://api.brightdata.com/datasets/v3"
	DefaultPollIntervalSeconds = 5
	DefaultPollMaxAttempts     = 120
	DefaultHTTPTimeoutSeconds  = 30
	DefaultCacheTTLHours       = 24
)

// Config holds every setting the retrieval pipelines need. It is built once at
// startup and passed by reference; nothing reads the environment after that.
type Config struct {
	// Bright Data credentials
	APIToken         string `json:"api_token,omitempty"`
	JobDatasetID     string `json:"job_dataset_id,omitempty"`
	ProfileDatasetID string `json:"profile_dataset_id,omitempty"`
	BaseURL          string `json:"base_url,omitempty" validate:"omitempty,url"`

	// Polling
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty" validate:"gte=0"`
	PollMaxAttempts     int `json:"poll_max_attempts,omitempty" validate:"gte=0"`
	PollTimeoutSeconds  int `json:"poll_timeout_seconds,omitempty" validate:"gte=0"`
	HTTPTimeoutSeconds  int `json:"http_timeout_seconds,omitempty" validate:"gte=0"`

	// Storage
	DatabaseURL   string `json:"database_url,omitempty"`
	RedisURL      string `json:"redis_url,omitempty"`
	CacheTTLHours int    `json:"cache_ttl_hours,omitempty" validate:"gte=0"`

	Verbose bool `json:"verbose,omitempty"`
}

// Credentials is the resolved token and dataset for one dataset kind.
type Credentials struct {
	APIToken  string
	DatasetID string
}

// Load reads configuration from the process environment.
// Keys without the BRIGHTDATA_ prefix win over the prefixed legacy names.
func Load() (*Config, error) {
	cfg := &Config{
		APIToken:         firstEnv("API_TOKEN", "BRIGHTDATA_API_TOKEN"),
		JobDatasetID:     firstEnv("JOB_DATASET_ID", "BRIGHTDATA_JOB_DATASET_ID"),
		ProfileDatasetID: firstEnv("PROFILE_DATASET_ID", "BRIGHTDATA_PROFILE_DATASET_ID"),
		BaseURL:          firstEnv("BRIGHTDATA_BASE_URL"),
		DatabaseURL:      firstEnv("DATABASE_URL"),
		RedisURL:         firstEnv("REDIS_URL"),
	}

	var err error
	if cfg.PollIntervalSeconds, err = envInt(DefaultPollIntervalSeconds, "POLL_INTERVAL_SECONDS", "BRIGHTDATA_POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.PollMaxAttempts, err = envInt(DefaultPollMaxAttempts, "POLL_MAX_ATTEMPTS"); err != nil {
		return nil, err
	}
	if cfg.PollTimeoutSeconds, err = envInt(0, "POLL_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeoutSeconds, err = envInt(DefaultHTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	}
	if cfg.CacheTTLHours, err = envInt(DefaultCacheTTLHours, "RESULT_CACHE_TTL_HOURS"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that numeric settings are in range. Missing credentials are not an
// error here; they are reported per dataset kind by Credentials.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigurationError{Message: "invalid configuration", Cause: err}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply environment values underneath a config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIToken == "" {
		result.APIToken = defaults.APIToken
	}
	if result.JobDatasetID == "" {
		result.JobDatasetID = defaults.JobDatasetID
	}
	if result.ProfileDatasetID == "" {
		result.ProfileDatasetID = defaults.ProfileDatasetID
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	if result.PollIntervalSeconds == 0 {
		result.PollIntervalSeconds = defaults.PollIntervalSeconds
	}
	if result.PollMaxAttempts == 0 {
		result.PollMaxAttempts = defaults.PollMaxAttempts
	}
	if result.PollTimeoutSeconds == 0 {
		result.PollTimeoutSeconds = defaults.PollTimeoutSeconds
	}
	if result.HTTPTimeoutSeconds == 0 {
		result.HTTPTimeoutSeconds = defaults.HTTPTimeoutSeconds
	}
	if result.CacheTTLHours == 0 {
		result.CacheTTLHours = defaults.CacheTTLHours
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	return result
}

// Credentials resolves the API token and dataset id for a dataset kind.
func (c *Config) Credentials(kind types.DatasetKind) (Credentials, error) {
	if c.APIToken == "" {
		return Credentials{}, &ConfigurationError{Key: "API_TOKEN", Message: "missing Bright Data API token"}
	}

	var datasetID, key string
	switch kind {
	case types.KindProfile:
		datasetID, key = c.ProfileDatasetID, "PROFILE_DATASET_ID"
	case types.KindJobListing, types.KindJobSearch:
		datasetID, key = c.JobDatasetID, "JOB_DATASET_ID"
	default:
		return Credentials{}, &ConfigurationError{Message: fmt.Sprintf("unknown dataset kind %q", kind)}
	}
	if datasetID == "" {
		return Credentials{}, &ConfigurationError{Key: key, Message: fmt.Sprintf("missing dataset id for %s", kind)}
	}

	return Credentials{APIToken: c.APIToken, DatasetID: datasetID}, nil
}

// APIBaseURL returns the Bright Data dataset API root.
func (c *Config) APIBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// PollInterval returns the delay between status checks.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// MaxPollAttempts returns the maximum number of status checks per snapshot.
func (c *Config) MaxPollAttempts() int {
	if c.PollMaxAttempts <= 0 {
		return DefaultPollMaxAttempts
	}
	return c.PollMaxAttempts
}

// PollTimeout returns the wall-clock cap on polling, zero meaning none.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// HTTPTimeout returns the per-request timeout for the remote service.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return DefaultHTTPTimeoutSeconds * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns how long a stored result stays fresh.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLHours <= 0 {
		return DefaultCacheTTLHours * time.Hour
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// envInt reads the first set key as an integer, falling back to defaultValue.
func envInt(defaultValue int, keys ...string) (int, error) {
	for _, key := range keys {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, &ConfigurationError{
				Key:     key,
				Message: fmt.Sprintf("must be a non-negative integer, got %q", value),
			}
		}
		return n, nil
	}
	return defaultValue, nil
}
