package render

import "github.com/charmbracelet/glamour/styles"

// Glamour styles offered for reply rendering
const (
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeDracula    = styles.DraculaStyle
	ThemeTokyoNight = styles.TokyoNightStyle
	ThemePink       = styles.PinkStyle
	ThemeASCII      = styles.AsciiStyle
	ThemeNoTTY      = styles.NoTTYStyle
)

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the glamour styles usable for replies.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// IsBuiltinStyle reports whether style names a glamour built-in style.
// Anything else is treated as a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
