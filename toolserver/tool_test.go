package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolview/codegen"
)

type weatherArgs struct {
	City string `json:"city" description:"City name"`
	Unit string `json:"unit,omitempty" enum:"C,F"`
}

type weatherResult struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
}

func weatherTool(t *testing.T, opts ...ToolOption) Tool {
	t.Helper()
	tool, err := NewTool("get_weather", "Current weather", func(_ context.Context, a weatherArgs) (weatherResult, error) {
		return weatherResult{City: a.City, Temperature: 18}, nil
	}, opts...)
	require.NoError(t, err)
	return tool
}

func TestNewTool_Metadata(t *testing.T) {
	t.Parallel()
	tool := weatherTool(t, WithTimeout(time.Second))
	assert.Equal(t, "get_weather", tool.Name())
	assert.Equal(t, "Current weather", tool.Description())

	params := tool.Parameters()
	assert.Equal(t, "object", params["type"])
	props, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	city := props["city"].(map[string]any)
	assert.Equal(t, "City name", city["description"])
	unit := props["unit"].(map[string]any)
	assert.Equal(t, []any{"C", "F"}, unit["enum"])

	tm, ok := tool.(ToolMetadata)
	require.True(t, ok)
	assert.Equal(t, time.Second, tm.Timeout())
}

func TestNewTool_Execute(t *testing.T) {
	t.Parallel()
	tool := weatherTool(t)
	out, err := tool.Execute(context.Background(), raw(`{"city": "Tokyo"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"city": "Tokyo", "temperature": 18}`, string(out))
}

func TestNewTool_Execute_ClientErrors(t *testing.T) {
	t.Parallel()
	tool := weatherTool(t)
	tests := []struct {
		name string
		args string
	}{
		{"invalid json", `{"city":`},
		{"missing required", `{}`},
		{"wrong type", `{"city": 7}`},
		{"enum violation", `{"city": "Oslo", "unit": "K"}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := tool.Execute(context.Background(), raw(tt.args))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, IsClientError(err), "got %v", err)
			assert.False(t, IsSystemError(err))
		})
	}
}

type rangeArgs struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (a rangeArgs) Validate() error {
	if a.From > a.To {
		return errors.New("from must not exceed to")
	}
	return nil
}

func TestNewTool_Validatable(t *testing.T) {
	t.Parallel()
	tool, err := NewTool("span", "Span", func(_ context.Context, a rangeArgs) (struct {
		N int `json:"n"`
	}, error) {
		return struct {
			N int `json:"n"`
		}{N: a.To - a.From}, nil
	})
	require.NoError(t, err)

	_, err = tool.Execute(context.Background(), raw(`{"from": 3, "to": 1}`))
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "from must not exceed to")

	out, err := tool.Execute(context.Background(), raw(`{"from": 1, "to": 3}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 2}`, string(out))
}

func TestNewTool_HandlerErrors(t *testing.T) {
	t.Parallel()
	cause := errors.New("db down")
	failing, err := NewTool("fail", "Fail", func(_ context.Context, _ weatherArgs) (weatherResult, error) {
		return weatherResult{}, cause
	})
	require.NoError(t, err)
	_, err = failing.Execute(context.Background(), raw(`{"city": "x"}`))
	require.True(t, IsSystemError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal system error during tool execution", err.Error())

	rejecting, err := NewTool("reject", "Reject", func(_ context.Context, _ weatherArgs) (weatherResult, error) {
		return weatherResult{}, &ClientError{Reason: "unknown city"}
	})
	require.NoError(t, err)
	_, err = rejecting.Execute(context.Background(), raw(`{"city": "x"}`))
	require.True(t, IsClientError(err))
	assert.Equal(t, "invalid tool input: unknown city", err.Error())
}

func TestNewTool_WithStrict(t *testing.T) {
	t.Parallel()
	tool := weatherTool(t, WithStrict())
	params := tool.Parameters()
	assert.Equal(t, false, params["additionalProperties"])
	assert.Equal(t, []any{"city", "unit"}, params["required"])

	_, err := tool.Execute(context.Background(), raw(`{"city": "x"}`))
	require.ErrorIs(t, err, ErrValidation, "strict requires every property")
	_, err = tool.Execute(context.Background(), raw(`{"city": "x", "unit": "C"}`))
	require.NoError(t, err)
}

func TestNewTool_RejectsUnknownArguments(t *testing.T) {
	t.Parallel()
	_, err := weatherTool(t).Execute(context.Background(), raw(`{"city": "x", "country": "NO"}`))
	require.ErrorIs(t, err, ErrValidation)
}

type seriesArgs struct {
	Title  string       `json:"title" description:"Chart title"`
	Series []seriesSpec `json:"series"`
	Axis   *axisSpec    `json:"axis,omitempty"`
}

type seriesSpec struct {
	Column string `json:"column" description:"Result column"`
	Kind   string `json:"kind" enum:"line, bar"`
}

type axisSpec struct {
	Label string `json:"label" description:"Axis label"`
}

func TestNewTool_NestedAnnotations(t *testing.T) {
	t.Parallel()
	tool, err := NewTool("series", "Series", func(_ context.Context, a seriesArgs) (weatherResult, error) {
		return weatherResult{City: a.Title}, nil
	}, WithStrict())
	require.NoError(t, err)

	var params struct {
		Properties struct {
			Title  struct{ Description string } `json:"title"`
			Series struct {
				Items struct {
					Properties map[string]struct {
						Description string
						Enum        []string
					}
					Required []string
				}
			} `json:"series"`
			Axis struct {
				Properties map[string]struct{ Description string }
			} `json:"axis"`
		}
	}
	data, err := json.Marshal(tool.Parameters())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &params))
	assert.Equal(t, "Chart title", params.Properties.Title.Description)
	items := params.Properties.Series.Items
	assert.Equal(t, "Result column", items.Properties["column"].Description)
	assert.Equal(t, []string{"line", "bar"}, items.Properties["kind"].Enum)
	assert.Equal(t, []string{"column", "kind"}, items.Required)
	assert.Equal(t, "Axis label", params.Properties.Axis.Properties["label"].Description)

	_, err = tool.Execute(context.Background(), raw(`{"title": "t", "series": [{"column": "n", "kind": "pie"}], "axis": {"label": "x"}}`))
	require.ErrorIs(t, err, ErrValidation, "nested enums are enforced")
	_, err = tool.Execute(context.Background(), raw(`{"title": "t", "series": [{"column": "n", "kind": "bar"}], "axis": {"label": "x"}}`))
	require.NoError(t, err)
}

func TestNewTool_WithoutOutput(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, weatherTool(t).Output())
	assert.Nil(t, weatherTool(t, WithoutOutput()).Output())
}

func TestNewTool_NonStructOutput(t *testing.T) {
	t.Parallel()
	_, err := NewTool("list", "List", func(_ context.Context, _ weatherArgs) ([]string, error) {
		return nil, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a struct")

	tool, err := NewTool("list", "List", func(_ context.Context, _ weatherArgs) ([]string, error) {
		return []string{"a"}, nil
	}, WithoutOutput())
	require.NoError(t, err)
	out, err := tool.Execute(context.Background(), raw(`{"city": "x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(out))
}

type sampleConfig struct {
	Kind   string   `json:"kind" jsonschema:"enum=line,enum=bar"`
	Series []string `json:"series"`
}

type sampleResult struct {
	ID     string           `json:"id" jsonschema_description:"Result identifier."`
	Count  int              `json:"count"`
	Ratio  float64          `json:"ratio"`
	Rows   []map[string]any `json:"rows"`
	Note   *string          `json:"note,omitempty" jsonschema:"nullable"`
	Config sampleConfig     `json:"config"`
}

func TestOutputSchema_Compiles(t *testing.T) {
	t.Parallel()
	out, err := outputSchema[sampleResult]()
	require.NoError(t, err)

	var top map[string]any
	require.NoError(t, json.Unmarshal(out, &top))
	assert.NotContains(t, top, "$schema")
	assert.NotContains(t, top, "$id")
	assert.NotContains(t, top, "additionalProperties")
	assert.ElementsMatch(t, []any{"id", "count", "ratio", "rows", "config"}, top["required"])

	tt, err := codegen.Compile("sample", out)
	require.NoError(t, err)
	require.Len(t, tt.Decls, 2)
	assert.Equal(t, "SampleOutput", tt.Primary)
	assert.Equal(t, "Sample_SampleConfig", tt.Decls[1].Name)

	primary := tt.Decls[0]
	var names []string
	for _, f := range primary.Fields {
		names = append(names, f.JSONName)
	}
	assert.Equal(t, []string{"id", "count", "ratio", "rows", "note", "config"}, names, "declaration order is kept")
	assert.Equal(t, "Result identifier.", primary.Fields[0].Doc)
	assert.Equal(t, codegen.Primitive{Kind: codegen.Integer}, primary.Fields[1].Type)
	assert.Equal(t, codegen.Primitive{Kind: codegen.Number}, primary.Fields[2].Type)
	assert.Equal(t, codegen.Nullable{Inner: codegen.Primitive{Kind: codegen.String}}, primary.Fields[4].Type)
	assert.False(t, primary.Fields[4].Required)
	assert.Equal(t, codegen.Ref{Name: "Sample_SampleConfig"}, primary.Fields[5].Type)
	assert.Equal(t, codegen.Primitive{Kind: codegen.String}, tt.Decls[1].Fields[0].Type)
}
