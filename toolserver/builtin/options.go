package builtin

import "log/slog"

// Option configures Register.
type Option func(*options)

type options struct {
	cacheSize int
	maxRows   int
	logger    *slog.Logger
}

// WithCacheSize sets how many query results are kept for render_chart (default 128).
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithMaxRows caps the rows returned by one execute_sql call (default 1000).
// Pass 0 or negative to disable the cap.
func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{cacheSize: 128, maxRows: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
