package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"openai_api_key": "sk-test",
		"model": "gpt-4o",
		"redis_url": "redis://localhost:6379/0",
		"defaults": {"export_dir": "/tmp/essays"}
	}`
	err := os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("Expected api key loaded, got '%s'", cfg.OpenAIAPIKey)
	}
	if cfg.GetModel() != "gpt-4o" {
		t.Errorf("Expected model 'gpt-4o', got '%s'", cfg.GetModel())
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Expected redis url loaded, got '%s'", cfg.RedisURL)
	}
	if cfg.Defaults.ExportDir != "/tmp/essays" {
		t.Errorf("Expected export dir loaded, got '%s'", cfg.Defaults.ExportDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte("{bad"), 0600)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte(`{"model": "gpt-4o"}`), 0600)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Error("Expected validation error without api key")
	}
}

func TestGetStateDir(t *testing.T) {
	cfg := Config{StateDir: "/custom/state"}
	dir, err := cfg.GetStateDir()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dir != "/custom/state" {
		t.Errorf("Expected configured dir, got '%s'", dir)
	}

	cfg = Config{}
	dir, err = cfg.GetStateDir()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(dir) != ".essaypilot" {
		t.Errorf("Expected default ~/.essaypilot, got '%s'", dir)
	}
}
