// Package testutil provides test helpers for toolserver: a configurable MockTool,
// a test Registry and an in-process schema source.
package testutil

import (
	"context"
	"encoding/json"

	"github.com/skosovsky/toolview/toolserver"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]any
	// OutputVal is the output schema; nil means the tool declares none.
	OutputVal json.RawMessage
	ExecuteFn func(ctx context.Context, args []byte) ([]byte, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or empty map).
func (m *MockTool) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{}
}

// Output returns OutputVal.
func (m *MockTool) Output() json.RawMessage {
	return m.OutputVal
}

// Execute runs ExecuteFn if set, otherwise returns an empty JSON object.
func (m *MockTool) Execute(ctx context.Context, args []byte) ([]byte, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args)
	}
	return []byte(`{}`), nil
}

// Ensure MockTool implements Tool.
var _ toolserver.Tool = (*MockTool)(nil)
