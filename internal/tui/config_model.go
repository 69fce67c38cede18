package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/wedeliver/internal/config"
	"github.com/diogo/wedeliver/internal/render"
)

// configView represents the current view in the settings editor
type configView int

const (
	viewMain configView = iota
	viewModelSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// menuItem is one row of the main settings menu. Exactly one of
// toggle, open or exit is set.
type menuItem struct {
	label  string
	toggle func(cfg *config.Config) *bool
	open   configView
	exit   bool
}

var configMenu = []menuItem{
	{label: "Default Model", open: viewModelSelect},
	{label: "Escape Reply HTML", toggle: func(c *config.Config) *bool { return &c.EscapeHTML }},
	{label: "Copy to Clipboard", toggle: func(c *config.Config) *bool { return &c.CopyToClipboard }},
	{label: "Verbose Logging", toggle: func(c *config.Config) *bool { return &c.Verbose }},
	{label: "Markdown Theme", open: viewThemeSelect},
	{label: "TUI Theme", open: viewTUIThemeSelect},
	{label: "Exit", exit: true},
}

// ConfigOptions configures the settings editor
type ConfigOptions struct {
	Config config.Config
	Path   string

	// Save persists the edited config; defaults to writing Path
	Save func(cfg config.Config) error
}

// ConfigModel represents the settings editor state
type ConfigModel struct {
	config config.Config
	path   string
	save   func(config.Config) error

	// Navigation
	view    configView
	cursor  int
	choiceI int

	// Feedback
	feedback        string
	feedbackErr     bool
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings editor for opts.Config
func NewConfigModel(opts ConfigOptions) ConfigModel {
	save := opts.Save
	if save == nil {
		path := opts.Path
		save = func(cfg config.Config) error {
			return config.SaveConfigTo(path, cfg)
		}
	}

	return ConfigModel{
		config:          opts.Config,
		path:            opts.Path,
		save:            save,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the config as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// choices lists the options of the current sub-menu
func (m ConfigModel) choices() []string {
	switch m.view {
	case viewModelSelect:
		return config.AvailableModels()
	case viewThemeSelect:
		return render.ThemeNames()
	case viewTUIThemeSelect:
		return render.TUIThemeNames()
	}
	return nil
}

// currentChoice returns the configured value for the current sub-menu
func (m ConfigModel) currentChoice() string {
	switch m.view {
	case viewModelSelect:
		return m.config.DefaultModel
	case viewThemeSelect:
		if m.config.Markdown.Style == "" {
			return render.ThemeDark
		}
		return m.config.Markdown.Style
	case viewTUIThemeSelect:
		if m.config.TUITheme == "" {
			return render.WeDeliverTheme.Name
		}
		return m.config.TUITheme
	}
	return ""
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackErr = false

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the cursor of the current view, wrapping at both ends
func (m *ConfigModel) move(delta int) {
	if m.view == viewMain {
		m.cursor = (m.cursor + delta + len(configMenu)) % len(configMenu)
		return
	}
	n := len(m.choices())
	if n == 0 {
		return
	}
	m.choiceI = (m.choiceI + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain {
		item := configMenu[m.cursor]
		switch {
		case item.exit:
			return m, tea.Quit
		case item.toggle != nil:
			v := item.toggle(&m.config)
			*v = !*v
			m.persist(fmt.Sprintf("%s %s", item.label, enabledWord(*v)))
		default:
			m.view = item.open
			m.choiceI = indexOf(m.choices(), m.currentChoice())
			return m, nil
		}
		return m, clearFeedback(m.feedbackTimeout)
	}

	choices := m.choices()
	if len(choices) == 0 {
		m.view = viewMain
		return m, nil
	}
	selected := choices[m.choiceI]

	switch m.view {
	case viewModelSelect:
		m.config.DefaultModel = selected
		m.persist("Model set to " + selected)
	case viewThemeSelect:
		m.config.Markdown.Style = selected
		m.persist("Markdown theme set to " + selected)
	case viewTUIThemeSelect:
		m.config.TUITheme = selected
		render.SetTUITheme(selected)
		UpdateTheme()
		m.persist("TUI theme set to " + selected)
	}

	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

// persist saves the config and records the outcome as feedback
func (m *ConfigModel) persist(success string) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
		return
	}
	m.feedback = success
	m.feedbackErr = false
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// View renders the settings editor
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("✦ Settings"),
		hintStyle.Render(m.path),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	var body string
	if m.view == viewMain {
		body = m.renderMainMenu()
	} else {
		body = m.renderChoices()
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, errorStyle.Render("✗ "+m.feedback))
		} else {
			sections = append(sections, noticeStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one selectable row
func menuLine(selected bool, label string) string {
	if selected {
		return questionCursorStyle.Render("▸ ") + questionSelectedStyle.Render(label)
	}
	return "  " + questionStyle.Render(label)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	const labelWidth = 20

	lines := []string{questionsHeadingStyle.Render("⚙ Settings")}
	for i, item := range configMenu {
		if item.exit {
			lines = append(lines, "", menuLine(m.cursor == i, item.label))
			continue
		}

		var value string
		if item.toggle != nil {
			cfg := m.config
			if *item.toggle(&cfg) {
				value = enabledStyle.Render("enabled")
			} else {
				value = disabledStyle.Render("disabled")
			}
		} else {
			value = valueStyle.Render(m.valueFor(item.open))
		}

		pad := labelWidth - len(item.label)
		if pad < 1 {
			pad = 1
		}
		lines = append(lines, menuLine(m.cursor == i, item.label)+strings.Repeat(" ", pad)+value)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// valueFor returns the current value shown next to a sub-menu entry
func (m ConfigModel) valueFor(view configView) string {
	sub := m
	sub.view = view
	return sub.currentChoice()
}

// renderChoices renders the options of a sub-menu
func (m ConfigModel) renderChoices() string {
	titles := map[configView]string{
		viewModelSelect:    "Select Model",
		viewThemeSelect:    "Select Markdown Theme",
		viewTUIThemeSelect: "Select TUI Theme",
	}

	descriptions := map[string]string{}
	switch m.view {
	case viewThemeSelect:
		for _, t := range render.AvailableThemes() {
			descriptions[t.Name] = t.Description
		}
	case viewTUIThemeSelect:
		for _, t := range render.AvailableTUIThemes() {
			descriptions[t.Name] = t.Description
		}
	}

	current := m.currentChoice()
	lines := []string{questionsHeadingStyle.Render(titles[m.view])}
	for i, choice := range m.choices() {
		label := choice
		if d := descriptions[choice]; d != "" {
			label = fmt.Sprintf("%s - %s", choice, d)
		}
		line := menuLine(m.choiceI == i, label)
		if choice == current {
			line += enabledStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	shortcuts := []shortcut{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", back}}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings editor
func RunConfig(opts ConfigOptions) error {
	p := tea.NewProgram(
		NewConfigModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
