package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/wedeliver/internal/config"
)

func TestConfigCommand_Show(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	td := newTestDeps(t)
	td.cfg.APIKey = "super-secret-key"

	if err := td.run("config"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := td.stdout.String()
	if strings.Contains(out, "super-secret-key") {
		t.Fatal("api key must never be printed")
	}
	if !strings.Contains(out, "api key: set (from GEMINI_API_KEY)") {
		t.Errorf("missing key state: %q", out)
	}
	if !strings.Contains(out, "config file: ") || !strings.Contains(out, "assistant profile: ") {
		t.Errorf("missing paths: %q", out)
	}

	jsonPart := out[:strings.Index(out, "\napi key:")]
	var shown map[string]any
	if err := json.Unmarshal([]byte(jsonPart), &shown); err != nil {
		t.Fatalf("config is not valid json: %v", err)
	}
	if shown["default_model"] != "gemini-2.0-flash" {
		t.Errorf("default_model = %v", shown["default_model"])
	}
	if shown["escape_html"] != true {
		t.Errorf("escape_html = %v", shown["escape_html"])
	}
}

func TestConfigCommand_KeyNotSet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	td := newTestDeps(t)
	td.cfg.APIKey = ""

	if err := td.run("config"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(td.stdout.String(), "api key: not set") {
		t.Errorf("output = %q", td.stdout.String())
	}
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	td := newTestDeps(t)

	if err := td.run("config", "init"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	configPath := filepath.Join(home, ".wedeliver", "config.json")
	assistantPath := filepath.Join(home, ".wedeliver", "assistant.yaml")
	for _, p := range []string{configPath, assistantPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}

	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.DefaultModel != config.DefaultConfig().DefaultModel {
		t.Errorf("model = %q", cfg.DefaultModel)
	}

	a, err := config.LoadAssistantFrom(assistantPath)
	if err != nil {
		t.Fatalf("written assistant does not load: %v", err)
	}
	if len(a.Questions) != 10 {
		t.Errorf("expected 10 questions, got %d", len(a.Questions))
	}

	// A second run refuses to overwrite
	td = newTestDeps(t)
	if err := td.run("config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected overwrite refusal, got %v", err)
	}

	td = newTestDeps(t)
	if err := td.run("config", "init", "--force"); err != nil {
		t.Errorf("--force should overwrite, got %v", err)
	}
}

func TestConfigEdit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	td := newTestDeps(t)
	td.cfg.DefaultModel = "gemini-2.5-pro"

	if err := td.run("config", "edit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if td.tui.configRun != 1 {
		t.Fatalf("RunConfig called %d times", td.tui.configRun)
	}
	if td.tui.configOpt.Config.DefaultModel != "gemini-2.5-pro" {
		t.Errorf("config = %+v", td.tui.configOpt.Config)
	}
	if td.tui.configOpt.Path != filepath.Join(home, ".wedeliver", "config.json") {
		t.Errorf("path = %q", td.tui.configOpt.Path)
	}
	if _, err := os.Stat(filepath.Join(home, ".wedeliver")); err != nil {
		t.Error("config dir should be created")
	}
}
