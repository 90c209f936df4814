package toolserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	outschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Middleware wraps a Tool with cross-cutting behavior.
type Middleware func(Tool) Tool

type callIDKey struct{}

// CallID returns the id of the call Registry.Execute is running in ctx, or "".
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}

func withCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// WithLogging logs every call with its tool name, call id and duration.
// Rejected arguments are logged at warn level, other failures at error level.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithOutputCheck validates every result against the output schema the tool
// publishes. A mismatch is a SystemError wrapping ErrOutputSchema. Tools without
// an output schema are returned unchanged.
func WithOutputCheck() Middleware {
	return func(next Tool) Tool {
		out := next.Output()
		if out == nil {
			return next
		}
		schema, err := compileOutput(next.Name(), out)
		return &checkedTool{toolBase: toolBase{next: next}, schema: schema, err: err}
	}
}

// toolBase delegates Tool and ToolMetadata to the wrapped Tool.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string               { return b.next.Name() }
func (b *toolBase) Description() string        { return b.next.Description() }
func (b *toolBase) Parameters() map[string]any { return b.next.Parameters() }
func (b *toolBase) Output() json.RawMessage    { return b.next.Output() }

func (b *toolBase) Timeout() time.Duration {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Timeout()
	}
	return 0
}

type loggingTool struct {
	toolBase
	logger *slog.Logger
}

func (t *loggingTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	attrs := []any{"tool", t.Name(), "call_id", CallID(ctx)}
	t.logger.DebugContext(ctx, "tool start", attrs...)
	start := time.Now()
	res, err := t.next.Execute(ctx, args)
	attrs = append(attrs, "duration", time.Since(start))
	switch {
	case err == nil:
		t.logger.InfoContext(ctx, "tool end", append(attrs, "bytes", len(res))...)
		return res, nil
	case IsClientError(err):
		t.logger.WarnContext(ctx, "tool rejected call", append(attrs, "error", err)...)
	default:
		t.logger.ErrorContext(ctx, "tool error", append(attrs, "error", err)...)
	}
	return nil, err
}

type checkedTool struct {
	toolBase
	schema *outschema.Schema
	err    error
}

func (t *checkedTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	if t.err != nil {
		return nil, &SystemError{Err: t.err}
	}
	res, err := t.next.Execute(ctx, args)
	if err != nil {
		return nil, err
	}
	doc, err := outschema.UnmarshalJSON(bytes.NewReader(res))
	if err != nil {
		return nil, &SystemError{Err: fmt.Errorf("%w: %w", ErrOutputSchema, err)}
	}
	if err := t.schema.Validate(doc); err != nil {
		return nil, &SystemError{Err: fmt.Errorf("%w: %w", ErrOutputSchema, err)}
	}
	return res, nil
}

func compileOutput(name string, schema json.RawMessage) (*outschema.Schema, error) {
	doc, err := outschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("output schema of %s: %w", name, err)
	}
	loc := "https://toolview.invalid/output/" + url.PathEscape(name) + ".json"
	c := outschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("output schema of %s: %w", name, err)
	}
	s, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("output schema of %s: %w", name, err)
	}
	return s, nil
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (first middleware is outermost). Tools registered later get
// them too. Calling Use again replaces the chain.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		r.tools[name] = wrap(raw, middlewares)
	}
}

func wrap(t Tool, middlewares []Middleware) Tool {
	for i := len(middlewares) - 1; i >= 0; i-- {
		t = middlewares[i](t)
	}
	return t
}
