package toolview

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Entry binds a renderer to one tool name. Build entries with Handle, or with
// the Entries method of a generated Renderers struct.
type Entry[R any] struct {
	name   string
	render func(map[string]any) (R, error)
}

// Name returns the tool name the entry renders.
func (e Entry[R]) Name() string { return e.name }

// Handle builds an Entry that decodes a tool output into T and passes it to fn.
// A nil fn yields an entry that NewTable ignores.
func Handle[T, R any](name string, fn func(T) R) Entry[R] {
	if fn == nil {
		return Entry[R]{name: name}
	}
	return Entry[R]{
		name: name,
		render: func(output map[string]any) (R, error) {
			v, err := decodeOutput[T](output)
			if err != nil {
				var zero R
				return zero, err
			}
			return fn(v), nil
		},
	}
}

// Table dispatches tool outputs to renderers by tool name.
// It is immutable after NewTable and safe for concurrent use.
type Table[R any] struct {
	renderers map[string]func(map[string]any) (R, error)
	extractor *Extractor
	logger    *slog.Logger
}

// NewTable builds a Table from entries. When two entries share a name, the later one wins.
func NewTable[R any](entries []Entry[R], opts ...Option) *Table[R] {
	o := buildOptions(opts)
	renderers := make(map[string]func(map[string]any) (R, error), len(entries))
	for _, e := range entries {
		if e.render == nil {
			continue
		}
		renderers[e.name] = e.render
	}
	return &Table[R]{
		renderers: renderers,
		extractor: &Extractor{logger: o.logger},
		logger:    o.logger,
	}
}

// Has reports whether a renderer is registered for name.
func (t *Table[R]) Has(name string) bool {
	_, ok := t.renderers[name]
	return ok
}

// Names returns the tool names with a renderer, sorted.
func (t *Table[R]) Names() []string {
	names := make([]string, 0, len(t.renderers))
	for name := range t.renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Render renders output with the renderer registered for name. The only shape check
// is that output is a non-null JSON object; field level conformance is trusted to the
// producer, and a value that cannot be decoded into the registered type is reported
// as ErrContractViolation. A panicking renderer is recovered as ErrRendererPanic.
func (t *Table[R]) Render(name string, output any) (R, error) {
	var zero R
	render, ok := t.renderers[name]
	if !ok {
		return zero, ErrNoRenderer
	}
	fields, ok := asObject(output)
	if !ok {
		return zero, fmt.Errorf("%w: got %s", ErrMalformedOutput, kindOf(output))
	}
	return callRenderer(render, fields)
}

func callRenderer[R any](render func(map[string]any) (R, error), fields map[string]any) (out R, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero R
			out, err = zero, &panicError{p: p}
		}
	}()
	out, err = render(fields)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrContractViolation, err)
	}
	return out, nil
}

// Dispatch renders output for name and reports whether anything was rendered.
// It never panics: a missing renderer, a malformed output or a failing renderer
// are logged and yield the zero value and false.
func (t *Table[R]) Dispatch(name string, output any) (R, bool) {
	out, err := t.Render(name, output)
	switch {
	case err == nil:
		return out, true
	case errors.Is(err, ErrNoRenderer):
		t.logger.Warn("no renderer for tool", "tool", name)
	case errors.Is(err, ErrRendererPanic):
		t.logger.Error("renderer failed", "tool", name, "error", err)
	default:
		t.logger.Warn("tool output not rendered", "tool", name, "error", err)
	}
	return out, false
}

// RenderMessage extracts and dispatches every part of one message, in order.
// Parts that are not tool results, or that fail to render, contribute nothing.
func (t *Table[R]) RenderMessage(parts []any) []R {
	var out []R
	for _, part := range parts {
		tp, ok := t.extractor.Extract(part)
		if !ok {
			continue
		}
		if r, ok := t.Dispatch(tp.ToolName, tp.Output); ok {
			out = append(out, r)
		}
	}
	return out
}
