package toolserver

import (
	"log/slog"
	"time"
)

type toolOptions struct {
	strict   bool
	noOutput bool
	timeout  time.Duration
}

// ToolOption configures a tool built with NewTool.
type ToolOption func(*toolOptions)

// WithStrict sets additionalProperties: false on every object of the argument
// schema and makes all properties required.
func WithStrict() ToolOption {
	return func(o *toolOptions) {
		o.strict = true
	}
}

// WithoutOutput publishes the tool without an output schema.
func WithoutOutput() ToolOption {
	return func(o *toolOptions) {
		o.noOutput = true
	}
}

// WithTimeout sets a per-tool timeout that overrides the registry default.
func WithTimeout(d time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.timeout = d
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	timeout        time.Duration
	maxConcurrency int
	recoverPanics  bool
	logger         *slog.Logger
}

// WithDefaultTimeout sets the default execution timeout for tools.
func WithDefaultTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		o.timeout = d
	}
}

// WithMaxConcurrency limits concurrent tool executions.
// Pass 0 or negative to disable the limit.
func WithMaxConcurrency(n int) RegistryOption {
	return func(o *registryOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics enables panic recovery in Execute (returns SystemError).
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// WithLogger sets the registry logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}
