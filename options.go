package toolview

import "log/slog"

// Option configures an Extractor or a Table.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report skipped parts and missing renderers.
// A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
