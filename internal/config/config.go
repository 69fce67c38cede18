// Package config handles configuration for wedeliver.
package config

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/models"
)

// Environment variables consulted for the provider API key, in order
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "WEDELIVER_API_KEY"}

// EnvPrefix is the prefix for environment overrides of config keys
const EnvPrefix = "WEDELIVER"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" mapstructure:"style"`                           // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" mapstructure:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" mapstructure:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" mapstructure:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" mapstructure:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model" mapstructure:"default_model"`
	BaseURL      string `json:"base_url" mapstructure:"base_url"`
	// RequestTimeout bounds a single completion in seconds. Zero means no timeout.
	RequestTimeout int `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	// EscapeHTML escapes provider text before markup is inserted.
	// Disable only for a trusted provider.
	EscapeHTML      bool           `json:"escape_html" mapstructure:"escape_html"`
	CopyToClipboard bool           `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" mapstructure:"tui_theme"`
	LogLevel        string         `json:"log_level,omitempty" mapstructure:"log_level"`
	Verbose         bool           `json:"verbose" mapstructure:"verbose"`
	Markdown        MarkdownConfig `json:"markdown,omitempty" mapstructure:"markdown"`

	// APIKey is only ever read from the environment and never written to disk
	APIKey string `json:"-" mapstructure:"api_key"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:    models.DefaultModel.Name,
		BaseURL:         models.EndpointBase,
		RequestTimeout:  0,
		EscapeHTML:      true,
		CopyToClipboard: false,
		TUITheme:        "wedeliver",
		LogLevel:        "info",
		Verbose:         false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// RequireAPIKey returns the configured API key or a ConfigError naming the env vars
func (c Config) RequireAPIKey() (string, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return "", apierrors.NewMissingAPIKeyError(APIKeyEnvVars...)
	}
	return key, nil
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "****"
	}
	return c
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	return filepath.Join(home, ".wedeliver"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create config directory")
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogDir returns the directory log files are written to
func GetLogDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs"), nil
}

// LoadConfig loads the configuration from disk and the environment
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads configuration from path, layering environment overrides on top.
// A missing file is not an error.
func LoadConfigFrom(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), &apierrors.ConfigError{
				Message: "failed to parse config file " + path,
				Err:     err,
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), errors.Wrap(err, "failed to decode config")
	}

	return cfg, nil
}

// newViper builds a viper instance with defaults and env bindings
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("default_model", def.DefaultModel)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("request_timeout_seconds", def.RequestTimeout)
	v.SetDefault("escape_html", def.EscapeHTML)
	v.SetDefault("copy_to_clipboard", def.CopyToClipboard)
	v.SetDefault("tui_theme", def.TUITheme)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("markdown.style", def.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", def.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", def.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", def.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", def.Markdown.InlineTableLinks)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(append([]string{"api_key"}, APIKeyEnvVars...)...)

	return v
}

// SaveConfig saves the configuration to disk. The API key is never written.
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo writes cfg as JSON to path
func SaveConfigTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// AvailableModels returns a list of available model names
func AvailableModels() []string {
	all := models.AllModels()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name
	}
	return names
}
