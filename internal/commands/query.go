package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/wedeliver/internal/chat"
	apierrors "github.com/diogo/wedeliver/internal/errors"
	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
	"github.com/diogo/wedeliver/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#4285f4"), // Blue
	lipgloss.Color("#5e97f6"),
	lipgloss.Color("#8ab4f8"),
	lipgloss.Color("#34a853"), // Green
	lipgloss.Color("#5bb974"),
	lipgloss.Color("#81c995"),
	lipgloss.Color("#fbbc05"), // Yellow
	lipgloss.Color("#ea4335"), // Red
}

var (
	colorText     = lipgloss.Color("#e8eaed")
	colorTextDim  = lipgloss.Color("#9aa0a6")
	colorTextMute = lipgloss.Color("#5f6368")
	colorSuccess  = lipgloss.Color("#34a853")
	colorPrimary  = lipgloss.Color("#4285f4")
	colorError    = lipgloss.Color("#ea4335")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorSuccess).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends one prompt through a fresh session and prints the reply
func runQuery(cmd *cobra.Command, deps *Dependencies, gf *globalFlags, qf *queryFlags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
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

	session := chat.NewSession(completer,
		chat.WithLogger(env.logger),
		chat.WithFormatter(formatterFor(env.cfg)),
	)
	defer session.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	decorate := !qf.raw && isTTY(deps.Stderr)
	var spin *spinner
	if decorate {
		spin = newSpinner(deps.Stderr, env.assistant.Title+" is typing")
		spin.start()
	}

	startTime := time.Now()
	call := session.SubmitUserMessage(ctx, prompt)
	result := call.Wait()
	elapsed := time.Since(startTime)

	msgs := session.Messages()
	reply := msgs[len(msgs)-1]

	if !result.IsSuccess() {
		if spin != nil {
			spin.stopWithError()
		}
		env.logger.Error().Err(result.Err()).Str("reason", result.Message).Msg("one-shot query failed")
		return &replyError{reply: reply.Content, cause: result.Err()}
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if env.cfg.Verbose && !qf.raw {
		fmt.Fprintf(deps.Stderr, "[verbose] Model: %s, request took %s\n",
			models.ModelFromName(env.cfg.DefaultModel).Name, elapsed.Round(time.Millisecond))
	}

	text := markup.ToTerminal(reply.Content)
	if qf.raw {
		text = reply.Content
	}

	if qf.copy || env.cfg.CopyToClipboard {
		if err := deps.Clipboard(markup.ToTerminal(reply.Content)); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else if !qf.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if qf.output != "" {
		if err := os.WriteFile(qf.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !qf.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", qf.output),
			))
		}
		return nil
	}

	if qf.raw || !isTTY(deps.Stdout) {
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	termWidth := getTerminalWidth(deps.Stdout)
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ "+env.assistant.Title))

	rendered, err := render.Reply(reply.Content, render.OptionsFromConfig(env.cfg).WithWidth(contentWidth))
	if err != nil {
		rendered = text
	}
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// replyError reports a failed query with the text the conversation shows.
// The completion error, when known, stays reachable through Unwrap.
type replyError struct {
	reply string
	cause error
}

func (e *replyError) Error() string {
	return e.reply
}

func (e *replyError) Unwrap() error {
	return e.cause
}

// formatErrorMessage formats an error with a hint for known failures
func formatErrorMessage(err error, prefix string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", prefix, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsConfigError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: export GEMINI_API_KEY=<your key> and try again"))
	case apierrors.GetHTTPStatus(err) == 400 || apierrors.GetHTTPStatus(err) == 403:
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the API key is valid for the generative language API"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout_seconds"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	}

	return sb.String()
}
