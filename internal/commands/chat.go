package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diogo/wedeliver/internal/chat"
	"github.com/diogo/wedeliver/internal/history"
	"github.com/diogo/wedeliver/internal/models"
	"github.com/diogo/wedeliver/internal/render"
	"github.com/diogo/wedeliver/internal/tui"
)

// chatFlags configure the interactive chat
type chatFlags struct {
	transcriptDir    string
	transcriptFormat string
}

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, gf *globalFlags) *cobra.Command {
	cf := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the WeDeliver assistant.

Pick one of the common questions with its number (or arrows and Tab),
or type your own. Ctrl+R returns to the question list, Ctrl+Y copies the
last answer, Ctrl+S saves the conversation and Esc or Ctrl+C leaves
the chat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runChat(ctx, deps, gf, cf)
		},
	}

	cmd.Flags().StringVar(&cf.transcriptDir, "transcript-dir", ".", "Directory Ctrl+S writes transcripts to")
	cmd.Flags().StringVar(&cf.transcriptFormat, "transcript-format", "markdown", "Transcript format (markdown, json)")

	return cmd
}

func runChat(ctx context.Context, deps *Dependencies, gf *globalFlags, cf *chatFlags) error {
	format, err := history.ParseFormat(cf.transcriptFormat)
	if err != nil {
		return err
	}

	env, err := loadRuntime(deps, gf)
	if err != nil {
		return err
	}
	defer env.Close()

	completer, release, err := deps.NewCompleter(env.cfg, env.assistant, env.logger)
	if err != nil {
		return err
	}
	defer release()

	logger := env.logger
	session := chat.NewSession(completer,
		chat.WithLogger(logger),
		chat.WithFormatter(formatterFor(env.cfg)),
		chat.OnChange(func(st chat.State) {
			logger.Debug().
				Int("messages", len(st.Messages)).
				Bool("loading", st.IsLoading).
				Msg("conversation changed")
		}),
	)

	if env.cfg.TUITheme != "" && !render.SetTUITheme(env.cfg.TUITheme) {
		logger.Warn().Str("theme", env.cfg.TUITheme).Msg("unknown TUI theme, using default")
	}
	tui.UpdateTheme()

	return deps.TUI.RunChat(ctx, session, tui.ChatOptions{
		Assistant:        env.assistant,
		ModelName:        models.ModelFromName(env.cfg.DefaultModel).Name,
		Render:           render.OptionsFromConfig(env.cfg),
		CopyToClipboard:  deps.Clipboard,
		TranscriptDir:    cf.transcriptDir,
		TranscriptFormat: format,
	})
}
