package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "info")
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, ":8080")
	}
	if cfg.Database.Path != "flood.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "flood.db")
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "test-key")
	}
	if cfg.Gemini.Timeout != 2*time.Minute {
		t.Errorf("Gemini.Timeout = %v, want %v", cfg.Gemini.Timeout, 2*time.Minute)
	}

	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok {
		t.Fatal("Scheduler.Tasks missing sql_maintenance default")
	}
	if !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v, want enabled with schedule", task)
	}
}

func TestLoadConfigMissingAPIKeyFails(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() succeeded without GEMINI_API_KEY, want validation error")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
logger:
  level: debug
  json: false
server:
  address: ":9090"
database:
  path: /tmp/other.db
gemini:
  model_name: gemini-2.5-pro
  max_query_rows: 10
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "debug")
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, ":9090")
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/other.db")
	}
	if cfg.Gemini.ModelName != "gemini-2.5-pro" {
		t.Errorf("Gemini.ModelName = %q, want %q", cfg.Gemini.ModelName, "gemini-2.5-pro")
	}
	if cfg.Gemini.MaxQueryRows != 10 {
		t.Errorf("Gemini.MaxQueryRows = %d, want 10", cfg.Gemini.MaxQueryRows)
	}
}

func TestLoadConfigInvalidLevelFails(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("FLOOD_LOGGER_LEVEL", "verbose")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() succeeded with invalid logger level, want validation error")
	}
}
