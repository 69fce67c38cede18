// Package markup turns provider reply text into the light HTML markup shown in the
// conversation, and back into plain text for terminal display.
package markup

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Markers inserted by the transform
const (
	LineBreak   = "<br />"
	BoldOpen    = "<strong>"
	BoldClose   = "</strong>"
	BulletGlyph = "•"
)

var (
	boldPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	bulletPattern   = regexp.MustCompile(BulletGlyph + `[ \t]*`)
	// a list marker must be followed by whitespace or the end, so prices survive
	numberedPattern = regexp.MustCompile(`(\d+\.)(\s|$)`)
	breakPattern    = regexp.MustCompile(`(?i)<br\s*/?>`)

	strictPolicy = bluemonday.StrictPolicy()
)

// Formatter converts raw reply text into conversation markup
type Formatter func(raw string) string

// Format escapes raw and then annotates it. Only the markers inserted here are
// markup; anything the provider sent is rendered as text.
func Format(raw string) string {
	return annotate(html.EscapeString(raw))
}

// FormatTrusted annotates raw without escaping it first. Provider text is
// interpolated as markup, so only use it with a trusted provider.
func FormatTrusted(raw string) string {
	return annotate(raw)
}

// annotate applies the four substitutions in order
func annotate(s string) string {
	s = strings.ReplaceAll(s, "\n", LineBreak)
	s = boldPattern.ReplaceAllString(s, BoldOpen+"$1"+BoldClose)
	s = bulletPattern.ReplaceAllString(s, BulletGlyph+" ")
	s = numberedPattern.ReplaceAllString(s, LineBreak+"$1$2")
	return s
}

// ToTerminal converts conversation markup into markdown-flavoured plain text
// suitable for glamour. Line breaks become newlines, bold spans become **X**,
// any other markup is dropped.
func ToTerminal(markup string) string {
	s := breakPattern.ReplaceAllString(markup, "\n")
	s = strings.ReplaceAll(s, BoldOpen, "**")
	s = strings.ReplaceAll(s, BoldClose, "**")
	s = strictPolicy.Sanitize(s)
	return html.UnescapeString(s)
}
