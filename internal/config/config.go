package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	DataDir    string           `json:"data_dir"`
	Extraction ExtractionConfig `json:"extraction"`
	Reporting  ReportingConfig  `json:"reporting"`
	Log        LogConfig        `json:"log"`
}

// ExtractionConfig holds tunables for the extraction pipeline.
// Credentials are never stored here; they come from the environment
// (GARMIN_EMAIL, GARMIN_PASSWORD) or an interactive prompt.
type ExtractionConfig struct {
	PageSize       int `json:"page_size"`
	PageDelayMs    int `json:"page_delay_ms"`
	ItemDelayMs    int `json:"item_delay_ms"`
	RequestDelayMs int `json:"request_delay_ms"` // minimum interval between any two API requests
	WeatherLimit   int `json:"weather_limit"`    // max activities to enrich with weather, 0 = all
	Year           int `json:"year"`             // default extraction year, 0 = current year
}

// ReportingConfig holds settings for the read-only reporting layer
type ReportingConfig struct {
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Extraction: ExtractionConfig{
			PageSize:       100,
			PageDelayMs:    1000,
			ItemDelayMs:    100,
			RequestDelayMs: 100,
			WeatherLimit:   50,
		},
		Reporting: ReportingConfig{
			CacheTTLSeconds: 300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from ~/.traininghub/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in zero values with defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DataDir == "" {
		if dir, err := DefaultDataDir(); err == nil {
			c.DataDir = dir
		}
	}
	if c.Extraction.PageSize == 0 {
		c.Extraction.PageSize = defaults.Extraction.PageSize
	}
	if c.Extraction.PageDelayMs == 0 {
		c.Extraction.PageDelayMs = defaults.Extraction.PageDelayMs
	}
	if c.Extraction.ItemDelayMs == 0 {
		c.Extraction.ItemDelayMs = defaults.Extraction.ItemDelayMs
	}
	if c.Extraction.RequestDelayMs == 0 {
		c.Extraction.RequestDelayMs = defaults.Extraction.RequestDelayMs
	}
	if c.Reporting.CacheTTLSeconds == 0 {
		c.Reporting.CacheTTLSeconds = defaults.Reporting.CacheTTLSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Save writes the configuration to ~/.traininghub/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	if dir, err := DefaultDataDir(); err == nil {
		example.DataDir = dir
	}
	return Save(&example)
}

// Validate checks if the config has sane values
func (c *Config) Validate() error {
	if c.Extraction.PageSize < 1 || c.Extraction.PageSize > 200 {
		return fmt.Errorf("extraction.page_size must be between 1 and 200, got %d", c.Extraction.PageSize)
	}
	if c.Extraction.PageDelayMs < 0 {
		return fmt.Errorf("extraction.page_delay_ms must not be negative, got %d", c.Extraction.PageDelayMs)
	}
	if c.Extraction.ItemDelayMs < 0 {
		return fmt.Errorf("extraction.item_delay_ms must not be negative, got %d", c.Extraction.ItemDelayMs)
	}
	if c.Extraction.RequestDelayMs < 0 {
		return fmt.Errorf("extraction.request_delay_ms must not be negative, got %d", c.Extraction.RequestDelayMs)
	}
	if c.Extraction.WeatherLimit < 0 {
		return fmt.Errorf("extraction.weather_limit must not be negative, got %d", c.Extraction.WeatherLimit)
	}
	if y := c.Extraction.Year; y != 0 && (y < 2000 || y > 2100) {
		return fmt.Errorf("extraction.year must be 0 or a four-digit year, got %d", y)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// PageDelay returns the delay between activity page fetches
func (e ExtractionConfig) PageDelay() time.Duration {
	return time.Duration(e.PageDelayMs) * time.Millisecond
}

// ItemDelay returns the delay between per-activity enrichment requests
func (e ExtractionConfig) ItemDelay() time.Duration {
	return time.Duration(e.ItemDelayMs) * time.Millisecond
}

// RequestDelay returns the minimum interval between any two API requests
func (e ExtractionConfig) RequestDelay() time.Duration {
	return time.Duration(e.RequestDelayMs) * time.Millisecond
}

// CacheTTL returns the reporting query cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Reporting.CacheTTLSeconds) * time.Second
}

// ExtractionYear returns the configured extraction year, defaulting to the
// current year
func (c *Config) ExtractionYear() int {
	if c.Extraction.Year != 0 {
		return c.Extraction.Year
	}
	return time.Now().Year()
}

// DBPath returns the path to the SQLite database file
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "garmin.db")
}

// TokenPath returns the path to the persisted token bundle
func (c *Config) TokenPath() string {
	return filepath.Join(c.DataDir, "tokens.json")
}

// DefaultDataDir returns the default data directory (~/.traininghub)
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".traininghub"), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	return DefaultDataDir()
}
