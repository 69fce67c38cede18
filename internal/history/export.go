// Package history exports the current conversation as a transcript file.
// Nothing is kept between runs; a transcript is only written on request.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/diogo/wedeliver/internal/markup"
	"github.com/diogo/wedeliver/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// Transcript is a snapshot of one conversation
type Transcript struct {
	Title    string
	Model    string
	SavedAt  time.Time
	Messages []models.Message
}

// NewTranscript snapshots msgs at the current time
func NewTranscript(title, model string, msgs []models.Message) Transcript {
	return Transcript{
		Title:    title,
		Model:    model,
		SavedAt:  time.Now(),
		Messages: append([]models.Message(nil), msgs...),
	}
}

// messageText returns the plain text of msg with conversation markup removed
func messageText(msg models.Message) string {
	if msg.Formatted {
		return markup.ToTerminal(msg.Content)
	}
	return msg.Content
}

// roleName returns the heading used for msg
func (t Transcript) roleName(msg models.Message) string {
	if msg.IsUser() {
		return "You"
	}
	if t.Title != "" {
		return t.Title
	}
	return "Assistant"
}

// Markdown renders the transcript as a Markdown document
func (t Transcript) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString(" conversation\n\n")

	if t.Model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(t.Model)
		sb.WriteString("\n")
	}
	sb.WriteString("**Saved:** ")
	sb.WriteString(t.SavedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(t.Messages)))

	for i, msg := range t.Messages {
		sb.WriteString("## ")
		sb.WriteString(t.roleName(msg))
		sb.WriteString("\n\n")
		sb.WriteString(messageText(msg))
		sb.WriteString("\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// JSON renders the transcript as indented JSON
func (t Transcript) JSON() ([]byte, error) {
	type exportMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Failed  bool   `json:"failed,omitempty"`
	}

	type exportTranscript struct {
		Title    string          `json:"title"`
		Model    string          `json:"model,omitempty"`
		SavedAt  time.Time       `json:"saved_at"`
		Messages []exportMessage `json:"messages"`
	}

	export := exportTranscript{
		Title:    t.Title,
		Model:    t.Model,
		SavedAt:  t.SavedAt,
		Messages: make([]exportMessage, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		export.Messages[i] = exportMessage{
			Role:    string(msg.Role),
			Content: messageText(msg),
			Failed:  !msg.IsUser() && !msg.Formatted,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// Render encodes the transcript in format
func (t Transcript) Render(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatMarkdown, "":
		return []byte(t.Markdown()), nil
	case ExportFormatJSON:
		return t.JSON()
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// FileName returns the default file name for the transcript in format
func (t Transcript) FileName(format ExportFormat) string {
	ext := ".md"
	if format == ExportFormatJSON {
		ext = ".json"
	}
	return "wedeliver-" + t.SavedAt.Format("20060102-150405") + ext
}

// Save writes the transcript into dir and returns the file path.
// An empty conversation is not written.
func Save(dir string, t Transcript, format ExportFormat) (string, error) {
	if len(t.Messages) == 0 {
		return "", errors.New("conversation is empty")
	}

	data, err := t.Render(format)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create transcript directory")
	}

	path := filepath.Join(dir, t.FileName(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write transcript")
	}
	return path, nil
}

// ParseFormat maps a user supplied name to an ExportFormat
func ParseFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", name)
	}
}
