package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/wedeliver/internal/models"
)

func sampleTranscript() Transcript {
	t := NewTranscript("WeDeliver", "gemini-2.0-flash", []models.Message{
		{Role: models.RoleUser, Content: "How do I track my shipment?"},
		{Role: models.RoleAssistant, Content: "Use your <strong>tracking number</strong><br />• Open the app", Formatted: true},
		{Role: models.RoleUser, Content: "Thanks"},
		{Role: models.RoleAssistant, Content: models.ErrorMessagePrefix + "HTTP error! status: 500"},
	})
	t.SavedAt = time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)
	return t
}

func TestTranscriptMarkdown(t *testing.T) {
	md := sampleTranscript().Markdown()

	checks := []string{
		"# WeDeliver conversation",
		"**Model:** gemini-2.0-flash",
		"**Saved:** 2025-03-04 10:20:30",
		"**Messages:** 4",
		"## You\n\nHow do I track my shipment?",
		"## WeDeliver\n\nUse your **tracking number**\n• Open the app",
		"HTTP error! status: 500",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "<strong>") || strings.Contains(md, "<br />") {
		t.Error("markdown should not contain conversation markup")
	}
}

func TestTranscriptJSON(t *testing.T) {
	data, err := sampleTranscript().JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var out struct {
		Title    string `json:"title"`
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Failed  bool   `json:"failed"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if out.Title != "WeDeliver" || out.Model != "gemini-2.0-flash" {
		t.Errorf("header = %q %q", out.Title, out.Model)
	}
	if len(out.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out.Messages))
	}
	if out.Messages[0].Role != "user" || out.Messages[1].Role != "assistant" {
		t.Errorf("roles = %q %q", out.Messages[0].Role, out.Messages[1].Role)
	}
	if out.Messages[1].Content != "Use your **tracking number**\n• Open the app" {
		t.Errorf("content = %q", out.Messages[1].Content)
	}
	if out.Messages[1].Failed || !out.Messages[3].Failed {
		t.Error("only the error reply should be marked failed")
	}
}

func TestNewTranscriptCopiesMessages(t *testing.T) {
	msgs := []models.Message{{Role: models.RoleUser, Content: "hi"}}
	tr := NewTranscript("WeDeliver", "", msgs)
	msgs[0].Content = "changed"

	if tr.Messages[0].Content != "hi" {
		t.Error("transcript should not share the caller's slice")
	}
	if strings.Contains(tr.Markdown(), "**Model:**") {
		t.Error("model line should be omitted when unknown")
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	tr := sampleTranscript()

	tests := []struct {
		format ExportFormat
		suffix string
		marker string
	}{
		{ExportFormatMarkdown, ".md", "# WeDeliver conversation"},
		{ExportFormatJSON, ".json", `"title": "WeDeliver"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			path, err := Save(dir, tr, tt.format)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if filepath.Base(path) != "wedeliver-20250304-102030"+tt.suffix {
				t.Errorf("path = %s", path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !strings.Contains(string(data), tt.marker) {
				t.Errorf("file missing %q", tt.marker)
			}
		})
	}
}

func TestSave_Empty(t *testing.T) {
	_, err := Save(t.TempDir(), NewTranscript("WeDeliver", "", nil), ExportFormatMarkdown)
	if err == nil {
		t.Error("expected error for empty conversation")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := sampleTranscript().Render("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{"Markdown", ExportFormatMarkdown, false},
		{" json ", ExportFormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
