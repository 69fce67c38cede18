package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/wedeliver/internal/chat"
	"github.com/diogo/wedeliver/internal/config"
	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/history"
	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
	"github.com/diogo/wedeliver/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// shortcut is one key hint of a status bar
type shortcut struct {
	key  string
	desc string
}

// callDoneMsg is sent when an in-flight completion resolves
type callDoneMsg struct {
	call *chat.Call
}

// ChatSession is the part of chat.Session the TUI drives
type ChatSession interface {
	SubmitUserMessage(ctx context.Context, text string) *chat.Call
	Reset()
	SetDraftInput(text string)
	Messages() []models.Message
	DraftInput() string
	IsLoading() bool
	ShowQuestions() bool
}

// ChatOptions configures the chat screen
type ChatOptions struct {
	Assistant config.Assistant
	ModelName string
	Render    render.Options

	// CopyToClipboard replaces the system clipboard, mainly for tests
	CopyToClipboard func(text string) error

	// TranscriptDir and TranscriptFormat control Ctrl+S exports
	TranscriptDir    string
	TranscriptFormat history.ExportFormat
}

// Model represents the TUI state
type Model struct {
	ctx       context.Context
	session   ChatSession
	assistant config.Assistant
	modelName string
	renderOpt render.Options
	copyFn    func(string) error
	saveDir   string
	saveFmt   history.ExportFormat

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	call           *chat.Call
	cursor         int // selected canned question
	ready          bool
	notice         string
	err            error
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model bound to session
func NewChatModel(ctx context.Context, session ChatSession, opts ChatOptions) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	ta.SetValue(session.DraftInput())

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	copyFn := opts.CopyToClipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	assistant := opts.Assistant
	if assistant.Title == "" {
		assistant = config.DefaultAssistant()
	}

	return Model{
		ctx:       ctx,
		session:   session,
		assistant: assistant,
		modelName: opts.ModelName,
		renderOpt: opts.Render,
		copyFn:    copyFn,
		saveDir:   opts.TranscriptDir,
		saveFmt:   opts.TranscriptFormat,
		textarea:  ta,
		spinner:   s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// waitForCall blocks on the call in a tea.Cmd goroutine
func waitForCall(call *chat.Call) tea.Cmd {
	return func() tea.Msg {
		<-call.Done()
		return callDoneMsg{call: call}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		m.notice = ""

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.call != nil && m.session.IsLoading() {
				m.call.Cancel()
				m.call = nil
				m.updateViewport()
				return m, nil
			}
			return m, tea.Quit

		case "ctrl+r":
			if !m.session.IsLoading() {
				m.session.Reset()
				m.textarea.Reset()
				m.cursor = 0
				m.err = nil
				m.updateViewport()
			}
			return m, nil

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "ctrl+s":
			m.saveTranscript()
			return m, nil

		case "enter":
			if m.session.IsLoading() {
				return m, nil
			}
			return m.submit()
		}

		if m.session.ShowQuestions() && !m.session.IsLoading() {
			if handled := m.handleQuestionKey(msg); handled {
				return m, nil
			}
		}

	case callDoneMsg:
		if msg.call == m.call {
			m.call = nil
			if result := msg.call.Wait(); !msg.call.Discarded() && !result.IsSuccess() {
				if cause := result.Err(); cause != nil && !apierrors.IsCanceled(cause) {
					m.err = cause
				}
			}
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.session.IsLoading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.session.IsLoading() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only keys reach the textarea, and only while idle
	if !m.session.IsLoading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			if v := m.textarea.Value(); v != m.session.DraftInput() {
				m.session.SetDraftInput(v)
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the textarea content through the session
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	m.session.SetDraftInput(input)

	call := m.session.SubmitUserMessage(m.ctx, input)
	if call == nil {
		return m, nil
	}

	m.call = call
	m.err = nil
	m.animationFrame = 0
	m.textarea.Reset()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		waitForCall(call),
		m.spinner.Tick,
		animationTick(),
	)
}

// handleQuestionKey moves through or picks a canned question.
// Digits only select while the input is empty so they can still be typed.
func (m *Model) handleQuestionKey(msg tea.KeyMsg) bool {
	questions := m.assistant.Questions
	if len(questions) == 0 {
		return false
	}

	switch msg.String() {
	case "up":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(questions) - 1
		}
		return true
	case "down":
		m.cursor++
		if m.cursor >= len(questions) {
			m.cursor = 0
		}
		return true
	case "tab":
		m.selectQuestion(m.cursor)
		return true
	}

	if m.textarea.Value() != "" || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return false
	}
	idx := int(r - '1')
	if r == '0' {
		idx = 9
	}
	if idx >= len(questions) {
		return false
	}
	m.selectQuestion(idx)
	return true
}

// selectQuestion copies a canned question into the draft
func (m *Model) selectQuestion(idx int) {
	q := m.assistant.Questions[idx]
	m.cursor = idx
	m.session.SetDraftInput(q)
	m.textarea.SetValue(q)
	m.textarea.CursorEnd()
}

// copyLastReply puts the newest assistant message on the clipboard
func (m *Model) copyLastReply() {
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsUser() {
			continue
		}
		text := msgs[i].Content
		if msgs[i].Formatted {
			text = markup.ToTerminal(text)
		}
		if err := m.copyFn(text); err != nil {
			m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
			return
		}
		m.err = nil
		m.notice = "Copied reply to clipboard"
		return
	}
	m.notice = "Nothing to copy yet"
}

// saveTranscript writes the conversation to the transcript directory
func (m *Model) saveTranscript() {
	t := history.NewTranscript(m.assistant.Title, m.modelName, m.session.Messages())
	path, err := history.Save(m.saveDir, t, m.saveFmt)
	if err != nil {
		m.notice = "Nothing saved: " + err.Error()
		return
	}
	m.err = nil
	m.notice = "Saved " + path
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render("✦ " + m.assistant.Title)}
	if m.modelName != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.modelName),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.session.ShowQuestions() {
		messagesContent = m.renderQuestions()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.session.IsLoading() {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderQuestions renders the canned question list shown for an empty conversation
func (m Model) renderQuestions() string {
	var sb strings.Builder
	sb.WriteString(questionsHeadingStyle.Render(m.assistant.QuestionsHeading))
	sb.WriteString("\n")

	for i, q := range m.assistant.Questions {
		cursor := "  "
		style := questionStyle
		if i == m.cursor {
			cursor = questionCursorStyle.Render("▸ ")
			style = questionSelectedStyle
		}

		number := "   "
		if i < 10 {
			number = fmt.Sprintf("%d. ", (i+1)%10)
		}

		sb.WriteString(cursor)
		sb.WriteString(questionNumberStyle.Render(number))
		sb.WriteString(style.Render(q))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
	}
	for i := numDots; i < 3; i++ {
		dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + m.assistant.Title + " is typing ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	var shortcuts []shortcut
	switch {
	case m.session.IsLoading():
		shortcuts = []shortcut{{"Esc", "Cancel"}, {"Ctrl+C", "Quit"}}
	case m.session.ShowQuestions():
		shortcuts = []shortcut{{"1-0", "Pick"}, {"↑↓ Tab", "Select"}, {"Enter", "Send"}, {"Esc", "Quit"}}
	default:
		shortcuts = []shortcut{{"Enter", "Send"}, {"Ctrl+R", "Home"}, {"Ctrl+Y", "Copy"}, {"Ctrl+S", "Save"}, {"Esc", "Quit"}}
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	if m.notice != "" {
		bar += "  " + noticeStyle.Render(m.notice)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ " + m.assistant.Title)
			content.WriteString(label + "\n")

			if !msg.Formatted {
				content.WriteString(failureBubbleStyle.Width(bubbleWidth).Render(msg.Content))
			} else {
				rendered, err := render.Reply(msg.Content, m.renderOpt.WithWidth(bubbleWidth-4))
				if err != nil {
					rendered = markup.ToTerminal(msg.Content)
				}
				content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI. The session is closed when the program exits.
func RunChat(ctx context.Context, session *chat.Session, opts ChatOptions) error {
	defer session.Close()

	m := NewChatModel(ctx, session, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
