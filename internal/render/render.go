package render

import (
	"strings"

	"github.com/diogo/wedeliver/internal/markup"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	opts = opts.normalized()
	renderer, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// Reply renders a formatted assistant message. The conversation markup is
// converted back to markdown first, so bold spans and line breaks survive.
func Reply(formatted string, opts Options) (string, error) {
	out, err := Markdown(markup.ToTerminal(formatted), opts)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
