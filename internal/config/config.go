package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the tradeview client.
type Config struct {
	Backend Backend     `yaml:"backend"`
	Storage Storage     `yaml:"storage"`
	Query   QueryConfig `yaml:"query"`
	Logging Logging     `yaml:"logging"`
}

// Backend describes the trading/insight backend the client talks to.
type Backend struct {
	BaseURL string `yaml:"base_url"`
	// Exchange segment passed to the quote stream (ex= query parameter).
	Exchange string `yaml:"exchange"`
	// RequestsPerMin throttles polling against the backend; 0 disables.
	RequestsPerMin int `yaml:"requests_per_min"`
	// PollIntervalSec is the portfolio refresh cadence for the TUI.
	PollIntervalSec int `yaml:"poll_interval_sec"`
}

// Storage holds paths for local persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// QueryConfig holds defaults for insight/event queries.
type QueryConfig struct {
	DefaultTicker string `yaml:"default_ticker"`
	Hours         int    `yaml:"hours"`
	Limit         int    `yaml:"limit"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies defaults and environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// Default returns a usable configuration when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8000"
	}
	if cfg.Backend.PollIntervalSec == 0 {
		cfg.Backend.PollIntervalSec = 10
	}
	if cfg.Query.DefaultTicker == "" {
		cfg.Query.DefaultTicker = "2330"
	}
	if cfg.Query.Hours == 0 {
		cfg.Query.Hours = 48
	}
	if cfg.Query.Limit == 0 {
		cfg.Query.Limit = 50
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "tradeview.db"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEVIEW_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("TRADEVIEW_EXCHANGE"); v != "" {
		cfg.Backend.Exchange = v
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("TRADEVIEW_TICKER"); v != "" {
		cfg.Query.DefaultTicker = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
