package commands

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/diogo/wedeliver/internal/api"
	"github.com/diogo/wedeliver/internal/chat"
	"github.com/diogo/wedeliver/internal/config"
	"github.com/diogo/wedeliver/internal/models"
	"github.com/diogo/wedeliver/internal/tui"
)

// fakeTUI records RunChat calls instead of taking over the terminal
type fakeTUI struct {
	calls     int
	session   *chat.Session
	opts      tui.ChatOptions
	configOpt tui.ConfigOptions
	configRun int
	err       error
}

func (f *fakeTUI) RunChat(ctx context.Context, session *chat.Session, opts tui.ChatOptions) error {
	f.calls++
	f.session = session
	f.opts = opts
	return f.err
}

func (f *fakeTUI) RunConfig(opts tui.ConfigOptions) error {
	f.configRun++
	f.configOpt = opts
	return f.err
}

type testDeps struct {
	*Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	mock      *api.MockClient
	tui       *fakeTUI
	cfg       config.Config
	released  int
	copied    []string
	gotConfig config.Config
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	td := &testDeps{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		mock:   &api.MockClient{Result: models.Success("Your parcel is **on the way**")},
		tui:    &fakeTUI{},
		cfg:    config.DefaultConfig(),
	}
	td.cfg.APIKey = "test-key"
	td.cfg.Markdown.Style = "notty"

	td.Dependencies = &Dependencies{
		TUI: td.tui,
		NewCompleter: func(cfg config.Config, assistant config.Assistant, logger zerolog.Logger) (chat.Completer, func(), error) {
			td.gotConfig = cfg
			if _, err := cfg.RequireAPIKey(); err != nil {
				return nil, nil, err
			}
			return td.mock, func() { td.released++ }, nil
		},
		NewLogger: func(cfg config.Config) (zerolog.Logger, io.Closer, error) {
			return zerolog.Nop(), nil, nil
		},
		LoadConfig: func() (config.Config, error) {
			return td.cfg, nil
		},
		LoadAssistant: func() (config.Assistant, error) {
			return config.DefaultAssistant(), nil
		},
		Clipboard: func(text string) error {
			td.copied = append(td.copied, text)
			return nil
		},
		Stdout: td.stdout,
		Stderr: td.stderr,
	}

	return td
}

func (td *testDeps) run(args ...string) error {
	if args == nil {
		args = []string{}
	}
	cmd := NewRootCmd(td.Dependencies)
	cmd.SetArgs(args)
	return cmd.Execute()
}
