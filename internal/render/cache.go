package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdlePerOptions bounds how many idle renderers are kept for one option set
const maxIdlePerOptions = 4

// rendererCache hands out glamour renderers keyed by their options.
// A TermRenderer must not render concurrently, so a renderer is removed from
// the cache while in use and returned afterwards.
type rendererCache struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var renderers = &rendererCache{idle: make(map[Options][]*glamour.TermRenderer)}

// acquire returns an idle renderer for opts or builds a new one
func (c *rendererCache) acquire(opts Options) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	if list := c.idle[opts]; len(list) > 0 {
		r := list[len(list)-1]
		c.idle[opts] = list[:len(list)-1]
		c.mu.Unlock()
		return r, nil
	}
	if _, ok := c.idle[opts]; !ok {
		c.idle[opts] = nil
	}
	c.mu.Unlock()

	return newRenderer(opts)
}

// release hands r back for reuse; surplus renderers are dropped
func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.idle[opts]) < maxIdlePerOptions {
		c.idle[opts] = append(c.idle[opts], r)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStylePath(opts.Style)
	if IsBuiltinStyle(opts.Style) {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	rendererOpts := []glamour.TermRendererOption{
		styleOpt,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all idle renderers
func ClearCache() {
	renderers.mu.Lock()
	renderers.idle = make(map[Options][]*glamour.TermRenderer)
	renderers.mu.Unlock()
}

// CacheSize returns how many distinct option sets have been rendered with
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.idle)
}
