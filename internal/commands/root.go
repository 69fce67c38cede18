// Package commands provides the wedeliver command line.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/wedeliver/internal/config"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	model    string
	logLevel string
	verbose  bool
}

// queryFlags configure the one-shot query
type queryFlags struct {
	output string
	file   string
	raw    bool
	copy   bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}

	gf := &globalFlags{}
	qf := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "wedeliver [prompt]",
		Short: "Ask the WeDeliver assistant about sending, tracking and paying for deliveries",
		Long: `wedeliver is a chat assistant for a delivery service, backed by the
Gemini generative language API. Set GEMINI_API_KEY before use.

Examples:
  wedeliver chat                                Start interactive chat
  wedeliver questions                           List the common questions
  wedeliver "How do I track my shipment?"       Ask a single question
  wedeliver -f question.txt                     Read the question from a file
  echo "What items can I send?" | wedeliver     Read the question from stdin
  wedeliver "Payment methods?" -o answer.txt    Save the answer to a file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "wedeliver %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, qf, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			return runQuery(cmd, deps, gf, qf, prompt)
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&gf.model, "model", "m", "", "Model to use (e.g., gemini-2.0-flash)")
	cmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&gf.verbose, "verbose", false, "Also write logs to stderr")
	cmd.Flags().StringVarP(&qf.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&qf.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&qf.raw, "raw", false, "Print the formatted markup without terminal rendering")
	cmd.Flags().BoolVar(&qf.copy, "copy", false, "Copy the response to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, gf))
	cmd.AddCommand(NewQuestionsCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// readPrompt resolves the prompt from the argument, --file or piped stdin.
// ok is false when there is no input at all.
func readPrompt(deps *Dependencies, qf *queryFlags, args []string) (string, bool, error) {
	if len(args) > 0 {
		return args[0], true, nil
	}

	if qf.file != "" {
		data, err := os.ReadFile(qf.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r carries input that is not an interactive terminal
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(f.Fd()))
}

// appEnv bundles what every command run needs
type appEnv struct {
	cfg       config.Config
	assistant config.Assistant
	logger    zerolog.Logger
	closer    io.Closer
}

func (r *appEnv) Close() {
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

// loadRuntime loads config and the assistant profile, applies flag overrides
// and opens the logger.
func loadRuntime(deps *Dependencies, gf *globalFlags) (*appEnv, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, err
	}

	if gf.model != "" {
		cfg.DefaultModel = gf.model
	}
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	if gf.verbose {
		cfg.Verbose = true
	}

	assistant, err := deps.LoadAssistant()
	if err != nil {
		return nil, err
	}

	logger, closer, err := deps.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	logger.Debug().
		Str("model", cfg.DefaultModel).
		Bool("escape_html", cfg.EscapeHTML).
		Dur("timeout", cfg.Timeout()).
		Msg("configuration loaded")

	return &appEnv{cfg: cfg, assistant: assistant, logger: logger, closer: closer}, nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isTTY returns true if w is connected to a terminal
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
