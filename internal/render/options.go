// Package render turns assistant replies into styled terminal output.
package render

// Options selects how replies are rendered. Options is comparable and is used
// as the renderer cache key, so equal options share renderers.
type Options struct {
	Width int
	// Style is a glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns 80 columns in the dark style
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// normalized fills in the defaults for zero fields
func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Style == "" {
		o.Style = ThemeDark
	}
	return o
}
