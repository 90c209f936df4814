package toolserver

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Tool is an executable tool with a JSON Schema for its arguments and, optionally,
// one for its output.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema of the arguments as a map.
	Parameters() map[string]any
	// Output returns the JSON Schema of the result, or nil when the tool does not
	// declare one.
	Output() json.RawMessage
	// Execute runs the tool on JSON arguments and returns the JSON result.
	Execute(ctx context.Context, args []byte) ([]byte, error)
}

// ToolMetadata is implemented by tools created with NewTool.
// Registry uses Timeout() to override its default timeout when set.
type ToolMetadata interface {
	Timeout() time.Duration
}

// ToolCall is a single execution request.
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage
}

type tool struct {
	name        string
	description string
	params      map[string]any
	output      json.RawMessage
	execute     func(context.Context, []byte) ([]byte, error)
	opts        toolOptions
}

// NewTool builds a Tool from a typed function. Arguments are validated against the
// schema reflected from T (and T.Validate when T implements Validatable) before fn
// runs. The output schema is reflected from R unless WithoutOutput is given.
// Errors returned by fn pass through when they are ClientErrors and become
// SystemErrors otherwise.
func NewTool[T, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	parser, err := NewArgsParser[T](o.strict)
	if err != nil {
		return nil, err
	}
	var output json.RawMessage
	if !o.noOutput {
		output, err = outputSchema[R]()
		if err != nil {
			return nil, err
		}
	}
	execute := func(ctx context.Context, args []byte) ([]byte, error) {
		v, err := parser.ParseAndValidate(args)
		if err != nil {
			return nil, err
		}
		res, err := fn(ctx, v)
		if err != nil {
			return nil, wrapHandlerError(err)
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, &SystemError{Err: err}
		}
		return b, nil
	}
	return &tool{
		name:        name,
		description: description,
		params:      parser.Schema(),
		output:      output,
		execute:     execute,
		opts:        o,
	}, nil
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }

// Parameters returns a shallow copy of the argument schema. Nested maps are
// shared; callers must not mutate them.
func (t *tool) Parameters() map[string]any { return maps.Clone(t.params) }

func (t *tool) Output() json.RawMessage { return slices.Clone(t.output) }

func (t *tool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	return t.execute(ctx, args)
}

func (t *tool) Timeout() time.Duration { return t.opts.timeout }

// wrapHandlerError passes through ClientError; wraps other errors as SystemError.
func wrapHandlerError(err error) error {
	if err == nil {
		return nil
	}
	if IsClientError(err) {
		return err
	}
	return &SystemError{Err: err}
}

var (
	_ Tool         = (*tool)(nil)
	_ ToolMetadata = (*tool)(nil)
)
