package render

import (
	"os"

	"github.com/diogo/wedeliver/internal/config"
)

// OptionsFromConfig builds render options from the markdown section of cfg.
// Without a configured style the TUI palette picks its matching one.
// GLAMOUR_STYLE overrides both.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	} else if theme, ok := GetTUIThemeByName(cfg.TUITheme); ok {
		opts.Style = theme.Markdown
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
