package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Create a temporary YAML config file.
	yamlContent := []byte(`
backend:
  base_url: "http://trading.example.test"
  exchange: "tse"
  requests_per_min: 120
  poll_interval_sec: 5
storage:
  data_dir: "/tmp/tradeview/data"
  sqlite_path: "/tmp/tradeview/tradeview.db"
query:
  default_ticker: "2454"
  hours: 24
  limit: 30
logging:
  level: "info"
  format: "json"
`)

	tmpFile, err := os.CreateTemp("", "tradeview-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("TRADEVIEW_BACKEND_URL")
	os.Unsetenv("TRADEVIEW_EXCHANGE")
	os.Unsetenv("TRADEVIEW_TICKER")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Backend --
	if cfg.Backend.BaseURL != "http://trading.example.test" {
		t.Errorf("Backend.BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://trading.example.test")
	}
	if cfg.Backend.Exchange != "tse" {
		t.Errorf("Backend.Exchange = %q, want %q", cfg.Backend.Exchange, "tse")
	}
	if cfg.Backend.RequestsPerMin != 120 {
		t.Errorf("Backend.RequestsPerMin = %d, want %d", cfg.Backend.RequestsPerMin, 120)
	}
	if cfg.Backend.PollIntervalSec != 5 {
		t.Errorf("Backend.PollIntervalSec = %d, want %d", cfg.Backend.PollIntervalSec, 5)
	}

	// -- Storage --
	if cfg.Storage.DataDir != "/tmp/tradeview/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/tradeview/data")
	}
	if cfg.Storage.SQLitePath != "/tmp/tradeview/tradeview.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/tmp/tradeview/tradeview.db")
	}

	// -- Query --
	if cfg.Query.DefaultTicker != "2454" {
		t.Errorf("Query.DefaultTicker = %q, want %q", cfg.Query.DefaultTicker, "2454")
	}
	if cfg.Query.Hours != 24 {
		t.Errorf("Query.Hours = %d, want %d", cfg.Query.Hours, 24)
	}
	if cfg.Query.Limit != 30 {
		t.Errorf("Query.Limit = %d, want %d", cfg.Query.Limit, 30)
	}

	// -- Logging --
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "tradeview-config-min-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write([]byte("logging:\n  level: debug\n")); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Unsetenv("TRADEVIEW_BACKEND_URL")
	os.Unsetenv("TRADEVIEW_TICKER")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Backend.BaseURL default = %q, want %q", cfg.Backend.BaseURL, "http://localhost:8000")
	}
	if cfg.Query.DefaultTicker != "2330" {
		t.Errorf("Query.DefaultTicker default = %q, want %q", cfg.Query.DefaultTicker, "2330")
	}
	if cfg.Query.Hours != 48 || cfg.Query.Limit != 50 {
		t.Errorf("Query defaults = %d/%d, want 48/50", cfg.Query.Hours, cfg.Query.Limit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
backend:
  base_url: "http://yaml.example.test"
storage:
  data_dir: "/original/data"
`)

	tmpFile, err := os.CreateTemp("", "tradeview-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	// Set environment overrides.
	os.Setenv("TRADEVIEW_BACKEND_URL", "http://env.example.test")
	os.Setenv("DATA_DIR", "/env/data")
	defer os.Unsetenv("TRADEVIEW_BACKEND_URL")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://env.example.test" {
		t.Errorf("Backend.BaseURL = %q, want %q (env override)", cfg.Backend.BaseURL, "http://env.example.test")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}
