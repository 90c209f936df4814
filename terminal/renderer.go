package terminal

import (
	"log/slog"

	"github.com/skosovsky/toolview"
	"github.com/skosovsky/toolview/toolsgen"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	theme     Theme
	maxRows   int
	cellWidth int
	barWidth  int
}

// WithTheme sets the color palette.
func WithTheme(t Theme) Option {
	return func(o *options) {
		o.theme = t
	}
}

// WithMaxRows sets how many SQL rows are drawn before the rest is summarized (default 20).
func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

// WithCellWidth sets the maximum width of a table cell in runes (default 32).
func WithCellWidth(n int) Option {
	return func(o *options) {
		o.cellWidth = n
	}
}

// WithBarWidth sets the width of the longest chart bar (default 30).
func WithBarWidth(n int) Option {
	return func(o *options) {
		o.barWidth = n
	}
}

// Renderer draws tool outputs. It is immutable and safe for concurrent use.
type Renderer struct {
	opts   options
	styles styles
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	o := options{theme: DefaultTheme(), maxRows: 20, cellWidth: 32, barWidth: 30}
	for _, opt := range opts {
		opt(&o)
	}
	if o.barWidth <= 0 {
		o.barWidth = 30
	}
	return &Renderer{opts: o, styles: newStyles(o.theme)}
}

// Renderers binds every renderer of r to its tool.
func (r *Renderer) Renderers() toolsgen.Renderers[string] {
	return toolsgen.Renderers[string]{
		GetWeather:  r.Weather,
		ExecuteSQL:  r.SQLResult,
		RenderChart: r.Chart,
	}
}

// NewTable returns a dispatch table with every renderer of r.
func (r *Renderer) NewTable(logger *slog.Logger) *toolview.Table[string] {
	return toolview.NewTable(r.Renderers().Entries(), toolview.WithLogger(logger))
}

// errorPanel draws a contract violation or a failed tool result.
func (r *Renderer) errorPanel(tool, msg string) string {
	s := r.styles
	return s.errBox.Render(s.errMsg.Bold(true).Render(tool+" failed") + "\n" + s.errMsg.Render(msg))
}
