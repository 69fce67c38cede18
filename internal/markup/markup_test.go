package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Example(t *testing.T) {
	got := Format("Hello\n**World** 1. first")

	assert.Contains(t, got, "Hello"+LineBreak)
	assert.Contains(t, got, BoldOpen+"World"+BoldClose)
	assert.Contains(t, got, LineBreak+"1.")
	assert.NotContains(t, got, "\n")
}

func TestFormat_Steps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newline", "a\nb", "a<br />b"},
		{"bold non-greedy", "**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
		{"unpaired bold left alone", "**a", "**a"},
		{"bullet gets one space", "•item", "• item"},
		{"bullet spaces collapsed", "•   item", "• item"},
		{"numbered list", "steps: 1. one 2. two", "steps: <br />1. one <br />2. two"},
		{"numbered at end", "see 3.", "see <br />3."},
		// a bare `(\d+\.)` rule with a trailing space would turn these into
		// "costs <br />2. 50 each" and "<br />1. Open"
		{"decimal untouched", "costs 2.50 each", "costs 2.50 each"},
		{"glued marker untouched", "1.Open the app", "1.Open the app"},
		{"plain", "nothing to do", "nothing to do"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_EscapesProviderMarkup(t *testing.T) {
	got := Format("<script>alert(1)</script> **ok**")

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
	assert.Contains(t, got, "<strong>ok</strong>")
}

func TestFormatTrusted_KeepsProviderMarkup(t *testing.T) {
	got := FormatTrusted("<em>x</em>\n**y**")

	assert.Equal(t, "<em>x</em><br /><strong>y</strong>", got)
}

func TestToTerminal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"breaks", "a<br />b<br/>c<br>d", "a\nb\nc\nd"},
		{"bold", "<strong>Hi</strong> there", "**Hi** there"},
		{"entities", "a &lt; b &amp; c", "a < b & c"},
		{"unknown tags dropped", "<em>x</em>", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToTerminal(tt.in))
		})
	}
}

func TestToTerminal_RoundTrip(t *testing.T) {
	raw := "Prices:\n• **Small**: $5\n1. Book online"

	got := ToTerminal(Format(raw))

	assert.True(t, strings.HasPrefix(got, "Prices:\n• **Small**: $5"))
	assert.Contains(t, got, "\n1. Book online")
}
