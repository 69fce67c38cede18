package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/wedeliver/internal/config"
	"github.com/diogo/wedeliver/internal/render"
	"github.com/diogo/wedeliver/internal/tui"
)

// NewConfigCmd creates the config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging the config file and the environment.
The API key is never printed. Use "wedeliver config edit" to change settings
interactively and "wedeliver config init" to write the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))

			keyState := "not set"
			if cfg.APIKey != "" {
				keyState = "set"
			}
			fmt.Fprintf(deps.Stdout, "\napi key: %s (from %s)\n", keyState, config.APIKeyEnvVars[0])

			if path, err := config.GetConfigPath(); err == nil {
				fmt.Fprintf(deps.Stdout, "config file: %s\n", path)
			}
			if path, err := config.GetAssistantPath(); err == nil {
				fmt.Fprintf(deps.Stdout, "assistant profile: %s\n", path)
			}
			return nil
		},
	}

	cmd.AddCommand(newConfigInitCmd(deps))
	cmd.AddCommand(newConfigEditCmd(deps))
	return cmd
}

// newConfigInitCmd writes the default config and assistant profile
func newConfigInitCmd(deps *Dependencies) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file and assistant profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := config.EnsureConfigDir()
			if err != nil {
				return err
			}

			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			assistantPath, err := config.GetAssistantPath()
			if err != nil {
				return err
			}

			for _, path := range []string{configPath, assistantPath} {
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}

			if err := config.SaveConfigTo(configPath, config.DefaultConfig()); err != nil {
				return err
			}
			if err := config.SaveAssistantTo(assistantPath, config.DefaultAssistant()); err != nil {
				return err
			}

			fmt.Fprintf(deps.Stdout, "wrote defaults to %s\n", configDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

// newConfigEditCmd opens the interactive settings editor
func newConfigEditCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the settings interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}

			if _, err := config.EnsureConfigDir(); err != nil {
				return err
			}
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			if cfg.TUITheme != "" {
				render.SetTUITheme(cfg.TUITheme)
			}
			tui.UpdateTheme()

			return deps.TUI.RunConfig(tui.ConfigOptions{Config: cfg, Path: path})
		},
	}
}
