package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is a color palette for the chat screen
type TUITheme struct {
	Name        string
	Description string

	// Markdown is the glamour style that reads well on this palette
	Markdown string

	Border lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// WeDeliverTheme is the default palette: brand blue header, green replies
	WeDeliverTheme = TUITheme{
		Name:        "wedeliver",
		Description: "Brand blue and green on a dark terminal",
		Markdown:    ThemeDark,

		Border:    "#3c4657",
		Primary:   "#4285f4",
		Secondary: "#34a853",
		Accent:    "#8ab4f8",
		Warning:   "#fbbc05",
		Error:     "#ea4335",
		Text:      "#e8eaed",
		TextDim:   "#9aa0a6",
		TextMute:  "#5f6368",
	}

	// WeDeliverLightTheme keeps the brand colors readable on a light background
	WeDeliverLightTheme = TUITheme{
		Name:        "wedeliver-light",
		Description: "Brand blue and green on a light terminal",
		Markdown:    ThemeLight,

		Border:    "#dadce0",
		Primary:   "#1a73e8",
		Secondary: "#188038",
		Accent:    "#1967d2",
		Warning:   "#e37400",
		Error:     "#d93025",
		Text:      "#202124",
		TextDim:   "#5f6368",
		TextMute:  "#9aa0a6",
	}

	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night",
		Markdown:    ThemeTokyoNight,

		Border:    "#414868",
		Primary:   "#7aa2f7",
		Secondary: "#9ece6a",
		Accent:    "#bb9af7",
		Warning:   "#e0af68",
		Error:     "#f7768e",
		Text:      "#c0caf5",
		TextDim:   "#565f89",
		TextMute:  "#3b4261",
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula",
		Markdown:    ThemeDracula,

		Border:    "#6272a4",
		Primary:   "#8be9fd",
		Secondary: "#50fa7b",
		Accent:    "#ff79c6",
		Warning:   "#f1fa8c",
		Error:     "#ff5555",
		Text:      "#f8f8f2",
		TextDim:   "#6272a4",
		TextMute:  "#44475a",
	}
)

// tuiThemes is the selection order; the first entry is the default
var tuiThemes = []TUITheme{WeDeliverTheme, WeDeliverLightTheme, TokyoNightTheme, DraculaTheme}

var (
	currentMu       sync.RWMutex
	currentTUITheme = WeDeliverTheme
)

// GetTUITheme returns the active palette
func GetTUITheme() TUITheme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the palette called name. Unknown names leave the
// active palette unchanged and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	currentMu.Lock()
	currentTUITheme = theme
	currentMu.Unlock()
	return true
}

// GetTUIThemeByName looks up a palette
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns the palettes in selection order
func AvailableTUIThemes() []TUITheme {
	return append([]TUITheme(nil), tuiThemes...)
}

// TUIThemeNames returns the palette names in selection order
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}
