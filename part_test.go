package toolview

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestExtract_ToolPart(t *testing.T) {
	t.Parallel()
	ex := NewExtractor(WithLogger(slog.New(slog.DiscardHandler)))
	part := map[string]any{
		"type":   "tool-get_weather",
		"output": map[string]any{"city": "Tokyo", "temperature": float64(18)},
	}
	got, ok := ex.Extract(part)
	require.True(t, ok)
	assert.Equal(t, "get_weather", got.ToolName)
	assert.Equal(t, map[string]any{"city": "Tokyo", "temperature": float64(18)}, got.Output)
}

func TestExtract_RawJSON(t *testing.T) {
	t.Parallel()
	ex := NewExtractor(WithLogger(slog.New(slog.DiscardHandler)))
	raw := json.RawMessage(`{"type":"tool-execute_sql","toolCallId":"call_1","state":"output-available","output":{"id":"ab12","success":true}}`)
	got, ok := ex.Extract(raw)
	require.True(t, ok)
	assert.Equal(t, "execute_sql", got.ToolName)
	assert.Equal(t, "call_1", got.CallID)
	assert.Equal(t, true, got.Output["success"])

	got, ok = ex.Extract([]byte(raw))
	require.True(t, ok)
	assert.Equal(t, "execute_sql", got.ToolName)
}

func TestExtract_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		part any
	}{
		{"nil", nil},
		{"string", "tool-get_weather"},
		{"number", 42.0},
		{"array", []any{map[string]any{"type": "tool-x", "output": map[string]any{}}}},
		{"nil map", map[string]any(nil)},
		{"invalid raw json", json.RawMessage(`{"type":`)},
		{"raw json array", json.RawMessage(`[1,2]`)},
		{"no type", map[string]any{"output": map[string]any{}}},
		{"type not a string", map[string]any{"type": 7, "output": map[string]any{}}},
		{"text part", map[string]any{"type": "text", "text": "hello"}},
		{"reasoning part", map[string]any{"type": "reasoning", "text": "thinking"}},
		{"prefix only", map[string]any{"type": "tool-", "output": map[string]any{}}},
		{"wrong case prefix", map[string]any{"type": "Tool-get_weather", "output": map[string]any{}}},
		{"still streaming", map[string]any{"type": "tool-get_weather", "state": "input-available"}},
		{"errored", map[string]any{"type": "tool-get_weather", "state": "output-error", "errorText": "boom"}},
		{"missing output", map[string]any{"type": "tool-get_weather"}},
		{"output string", map[string]any{"type": "tool-get_weather", "output": "not an object"}},
		{"output null", map[string]any{"type": "tool-get_weather", "output": nil}},
		{"output array", map[string]any{"type": "tool-get_weather", "output": []any{}}},
	}
	ex := NewExtractor(WithLogger(slog.New(slog.DiscardHandler)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				got, ok := ex.Extract(tt.part)
				assert.False(t, ok)
				assert.Equal(t, ToolPart{}, got)
			})
		})
	}
}

func TestExtract_TextPartIsNotAWarning(t *testing.T) {
	var buf bytes.Buffer
	ex := NewExtractor(WithLogger(bufferLogger(&buf)))
	_, ok := ex.Extract(map[string]any{"type": "text", "text": "hello"})
	require.False(t, ok)
	assert.NotContains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "not a tool result")
}

func TestExtract_MalformedOutputWarns(t *testing.T) {
	var buf bytes.Buffer
	ex := NewExtractor(WithLogger(bufferLogger(&buf)))
	_, ok := ex.Extract(map[string]any{"type": "tool-get_weather", "output": "not an object"})
	require.False(t, ok)
	logStr := buf.String()
	assert.Contains(t, logStr, "level=WARN")
	assert.Contains(t, logStr, "malformed tool part output")
	assert.Contains(t, logStr, "tool=get_weather")
	assert.Contains(t, logStr, "output=string")

	buf.Reset()
	_, ok = ex.Extract(map[string]any{"type": "tool-get_weather"})
	require.False(t, ok)
	assert.Contains(t, buf.String(), "output=missing")
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()
	ex := NewExtractor(WithLogger(slog.New(slog.DiscardHandler)))
	parts := []any{
		map[string]any{"type": "tool-get_weather", "output": map[string]any{"city": "Tokyo"}},
		map[string]any{"type": "text", "text": "hello"},
		map[string]any{"type": "tool-get_weather", "output": "bad"},
	}
	for _, part := range parts {
		before, err := json.Marshal(part)
		require.NoError(t, err)
		first, ok1 := ex.Extract(part)
		second, ok2 := ex.Extract(part)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
		after, err := json.Marshal(part)
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after), "Extract must not mutate its input")
	}
}

func TestNewExtractor_NilLogger(t *testing.T) {
	t.Parallel()
	ex := NewExtractor(WithLogger(nil))
	require.NotNil(t, ex.logger)
}

func TestExtract_RawJSONKeepsLargeIntegers(t *testing.T) {
	t.Parallel()
	ex := NewExtractor(WithLogger(slog.New(slog.DiscardHandler)))
	got, ok := ex.Extract(json.RawMessage(`{"type":"tool-x","output":{"id":9007199254740993,"ratio":0.5}}`))
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), got.Output["id"])
	assert.Equal(t, json.Number("0.5"), got.Output["ratio"])
}
