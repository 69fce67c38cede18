package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apierrors "github.com/diogo/wedeliver/internal/errors"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range APIKeyEnvVars {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("Expected default model to be 'gemini-2.0-flash', got '%s'", cfg.DefaultModel)
	}
	if !cfg.EscapeHTML {
		t.Error("Expected EscapeHTML to default to true")
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Expected no timeout by default, got %v", cfg.Timeout())
	}
	if cfg.BaseURL == "" {
		t.Error("BaseURL should not be empty")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("GetConfigPath() should end with config.json, got %s", path)
	}
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfigFrom() returned error: %v", err)
	}
	if cfg.DefaultModel != DefaultConfig().DefaultModel {
		t.Errorf("expected default model, got %s", cfg.DefaultModel)
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("expected default markdown style, got %s", cfg.Markdown.Style)
	}
}

func TestLoadConfigFrom_File(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"default_model":"gemini-2.5-pro","request_timeout_seconds":30,"escape_html":false,"markdown":{"style":"light"}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() returned error: %v", err)
	}
	if cfg.DefaultModel != "gemini-2.5-pro" {
		t.Errorf("DefaultModel = %s", cfg.DefaultModel)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.EscapeHTML {
		t.Error("EscapeHTML should be false from file")
	}
	if cfg.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %s", cfg.Markdown.Style)
	}
	if !cfg.Markdown.EnableEmoji {
		t.Error("unset markdown fields should keep defaults")
	}
}

func TestLoadConfigFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfigFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !apierrors.IsConfigError(err) {
		t.Errorf("expected ConfigError, got %T", err)
	}
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("WEDELIVER_DEFAULT_MODEL", "gemini-2.5-flash")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadConfigFrom() returned error: %v", err)
	}
	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("DefaultModel = %s", cfg.DefaultModel)
	}

	key, err := cfg.RequireAPIKey()
	if err != nil {
		t.Fatalf("RequireAPIKey() returned error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("RequireAPIKey() = %s", key)
	}
}

func TestRequireAPIKey_Missing(t *testing.T) {
	_, err := Config{}.RequireAPIKey()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error should name the env var: %v", err)
	}
}

func TestSaveConfigTo_NeverWritesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.APIKey = "super-secret"

	if err := SaveConfigTo(path, cfg); err != nil {
		t.Fatalf("SaveConfigTo() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "super-secret") {
		t.Error("API key was written to disk")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIKey: "abc"}
	if cfg.Redacted().APIKey == "abc" {
		t.Error("Redacted() should hide the key")
	}
	if cfg.APIKey != "abc" {
		t.Error("Redacted() should not modify the receiver")
	}
}

func TestAvailableModels(t *testing.T) {
	names := AvailableModels()
	if len(names) == 0 {
		t.Fatal("AvailableModels() returned empty list")
	}
	if names[0] != "gemini-2.0-flash" {
		t.Errorf("expected default model first, got %s", names[0])
	}
}
