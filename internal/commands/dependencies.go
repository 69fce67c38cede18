package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/diogo/wedeliver/internal/api"
	"github.com/diogo/wedeliver/internal/chat"
	"github.com/diogo/wedeliver/internal/config"
	"github.com/diogo/wedeliver/internal/logging"
	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
	"github.com/diogo/wedeliver/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, session *chat.Session, opts tui.ChatOptions) error
	RunConfig(opts tui.ConfigOptions) error
}

// Dependencies holds the external dependencies for the commands.
// Tests replace them to avoid the network, the terminal and the home directory.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// NewCompleter builds the completion backend. The returned func releases it.
	NewCompleter func(cfg config.Config, assistant config.Assistant, logger zerolog.Logger) (chat.Completer, func(), error)

	// NewLogger builds the logger for one command run.
	NewLogger func(cfg config.Config) (zerolog.Logger, io.Closer, error)

	LoadConfig    func() (config.Config, error)
	LoadAssistant func() (config.Assistant, error)

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, session *chat.Session, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, session, opts)
}

func (d *DefaultTUI) RunConfig(opts tui.ConfigOptions) error {
	return tui.RunConfig(opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:           &DefaultTUI{},
		NewCompleter:  newAPICompleter,
		NewLogger:     newFileLogger,
		LoadConfig:    config.LoadConfig,
		LoadAssistant: config.LoadAssistant,
		Clipboard:     clipboard.WriteAll,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

// formatterFor picks the reply transform for cfg
func formatterFor(cfg config.Config) markup.Formatter {
	if cfg.EscapeHTML {
		return markup.Format
	}
	return markup.FormatTrusted
}

// newAPICompleter builds the generative language client from cfg
func newAPICompleter(cfg config.Config, assistant config.Assistant, logger zerolog.Logger) (chat.Completer, func(), error) {
	apiKey, err := cfg.RequireAPIKey()
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(apiKey,
		api.WithModel(models.ModelFromName(cfg.DefaultModel)),
		api.WithBaseURL(cfg.BaseURL),
		api.WithSystemInstruction(assistant.SystemInstruction),
		api.WithFormatter(formatterFor(cfg)),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}

// newFileLogger logs to the rotating file under the config directory
func newFileLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	logDir, err := config.GetLogDir()
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    filepath.Join(logDir, logging.DefaultFileName),
		Console: cfg.Verbose,
	})
}
