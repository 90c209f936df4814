package toolserver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestWithLogging(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	inner := &minTool{name: "log_me", execute: func(context.Context, []byte) ([]byte, error) {
		return []byte(`{"ok":true}`), nil
	}}
	reg := NewRegistry()
	reg.Register(inner)
	reg.Use(WithLogging(debugLogger(&buf)))

	out, err := reg.Execute(context.Background(), ToolCall{ID: "call-7", ToolName: "log_me"})
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), out)
	logStr := buf.String()
	assert.Contains(t, logStr, "tool start")
	assert.Contains(t, logStr, "tool end")
	assert.Contains(t, logStr, "tool=log_me")
	assert.Contains(t, logStr, "call_id=call-7")
	assert.Contains(t, logStr, "bytes=11")
}

func TestWithLogging_Levels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		err   error
		level string
		msg   string
	}{
		{"client error", Invalidf("nope"), "level=WARN", "tool rejected call"},
		{"system error", &SystemError{Err: assert.AnError}, "level=ERROR", "tool error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			inner := &minTool{name: "bad", execute: func(context.Context, []byte) ([]byte, error) {
				return []byte(`{}`), tt.err
			}}
			out, err := WithLogging(debugLogger(&buf))(inner).Execute(context.Background(), nil)
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, out)
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}
}

func TestCallID(t *testing.T) {
	t.Parallel()
	assert.Empty(t, CallID(context.Background()))

	var seen string
	reg := NewRegistry()
	reg.Register(&minTool{name: "who", execute: func(ctx context.Context, _ []byte) ([]byte, error) {
		seen = CallID(ctx)
		return []byte(`{}`), nil
	}})
	_, err := reg.Execute(context.Background(), ToolCall{ID: "abc", ToolName: "who"})
	require.NoError(t, err)
	assert.Equal(t, "abc", seen)
}

func TestWithOutputCheck(t *testing.T) {
	t.Parallel()
	schema := raw(`{"type": "object", "properties": {"n": {"type": "integer"}}, "required": ["n"]}`)
	tests := []struct {
		name    string
		out     string
		wantErr bool
	}{
		{"matches", `{"n": 9007199254740993}`, false},
		{"extra properties", `{"n": 1, "note": "x"}`, false},
		{"missing required", `{}`, true},
		{"wrong type", `{"n": "one"}`, true},
		{"fraction", `{"n": 1.5}`, true},
		{"not json", `{"n": `, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inner := &minTool{name: "count", output: schema, execute: func(context.Context, []byte) ([]byte, error) {
				return []byte(tt.out), nil
			}}
			out, err := WithOutputCheck()(inner).Execute(context.Background(), nil)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.out, string(out))
				return
			}
			require.True(t, IsSystemError(err))
			assert.ErrorIs(t, err, ErrOutputSchema)
			assert.Nil(t, out)
		})
	}
}

func TestWithOutputCheck_PassesThrough(t *testing.T) {
	t.Parallel()
	bare := &minTool{name: "bare"}
	assert.Same(t, Tool(bare), WithOutputCheck()(bare), "tools without an output schema are not wrapped")

	failing := &minTool{name: "f", output: raw(`{"type": "object"}`), execute: func(context.Context, []byte) ([]byte, error) {
		return nil, Invalidf("bad")
	}}
	_, err := WithOutputCheck()(failing).Execute(context.Background(), nil)
	assert.True(t, IsClientError(err), "tool errors are returned unchanged")

	broken := &minTool{name: "broken", output: raw(`{"type": 5}`)}
	_, err = WithOutputCheck()(broken).Execute(context.Background(), nil)
	var se *SystemError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Err.Error(), "output schema of broken")
}

func TestWithOutputCheck_NewToolOutputs(t *testing.T) {
	t.Parallel()
	tool := WithOutputCheck()(weatherTool(t))
	out, err := tool.Execute(context.Background(), raw(`{"city": "Oslo"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"city": "Oslo", "temperature": 18}`, string(out))
}

func TestMiddleware_DelegatesMetadata(t *testing.T) {
	t.Parallel()
	tool := weatherTool(t, WithTimeout(time.Second))
	wrapped := WithOutputCheck()(WithLogging(quietLogger())(tool))
	assert.Equal(t, tool.Name(), wrapped.Name())
	assert.Equal(t, tool.Description(), wrapped.Description())
	assert.Equal(t, tool.Parameters(), wrapped.Parameters())
	assert.JSONEq(t, string(tool.Output()), string(wrapped.Output()))
	tm, ok := wrapped.(ToolMetadata)
	require.True(t, ok)
	assert.Equal(t, time.Second, tm.Timeout())

	bare := WithLogging(quietLogger())(&minTool{name: "bare"}).(ToolMetadata)
	assert.Zero(t, bare.Timeout())
}

func TestRegistry_Use(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	reg := NewRegistry()
	reg.Register(&minTool{name: "early", output: raw(`{"type": "object", "required": ["n"]}`)})
	reg.Use(WithLogging(debugLogger(&buf)), WithOutputCheck())
	reg.Register(weatherTool(t))

	_, err := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "early"})
	require.ErrorIs(t, err, ErrOutputSchema, "middlewares apply to tools registered before Use")
	assert.Contains(t, buf.String(), "tool error", "the first middleware is outermost")

	_, err = reg.Execute(context.Background(), ToolCall{ID: "2", ToolName: "get_weather", Args: raw(`{"city": "x"}`)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "get_weather", "middlewares apply to tools registered after Use")
}

func TestRegistry_Use_NoDoubleWrap(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	reg := NewRegistry()
	reg.Register(&minTool{name: "once"})
	reg.Use(WithLogging(debugLogger(&buf)))
	reg.Use(WithLogging(debugLogger(&buf)))
	_, err := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "once"})
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("tool start")))
}
