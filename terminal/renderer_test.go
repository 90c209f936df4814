package terminal

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolview/toolsgen"
)

func TestWeather(t *testing.T) {
	t.Parallel()
	r := New()
	out := r.Weather(toolsgen.GetWeatherOutput{City: "Tokyo", Condition: "sunny", Temperature: 72})
	assert.Contains(t, out, "Tokyo")
	assert.Contains(t, out, "72°F")
	assert.Contains(t, out, "☀")
	assert.Contains(t, out, "sunny")

	celsius := r.Weather(toolsgen.GetWeatherOutput{City: "Oslo", Condition: "hail", Temperature: -3.5, Unit: ptr("C")})
	assert.Contains(t, celsius, "-3.5°C")
	assert.Contains(t, celsius, "•")

	missing := r.Weather(toolsgen.GetWeatherOutput{Temperature: 18})
	assert.Contains(t, missing, "get_weather failed")
	assert.Contains(t, missing, "result has no city")
}

func sampleSQL() toolsgen.ExecuteSQLOutput {
	return toolsgen.ExecuteSQLOutput{
		ID:      "a1b2c3d4",
		Success: true,
		Query:   "SELECT title, year, rating\nFROM movies",
		Rows: []map[string]any{
			{"title": "Inception", "year": 2010.0, "rating": 8.8},
			{"title": "Parasite", "year": 2019.0, "rating": nil},
			{"title": "The Matrix", "year": 1999.0, "rating": 8.7},
		},
		RowCount:    3,
		ColumnNames: []string{"title", "year", "rating"},
	}
}

func TestSQLResult(t *testing.T) {
	t.Parallel()
	out := New().SQLResult(sampleSQL())
	for _, want := range []string{
		"SELECT title, year, rating FROM movies",
		"title", "year", "rating",
		"Inception", "2010", "8.8",
		"NULL",
		"3 rows · a1b2c3d4",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "title"), strings.Index(out, "rating"), "columns keep their order")
}

func TestSQLResult_MaxRows(t *testing.T) {
	t.Parallel()
	out := New(WithMaxRows(2)).SQLResult(sampleSQL())
	assert.Contains(t, out, "Parasite")
	assert.NotContains(t, out, "The Matrix")
	assert.Contains(t, out, "3 rows, 1 not shown")
}

func TestSQLResult_ContractViolations(t *testing.T) {
	t.Parallel()
	r := New()

	failed := r.SQLResult(toolsgen.ExecuteSQLOutput{ID: "x", Query: "SELEC", Error: ptr("syntax error")})
	assert.Contains(t, failed, "execute_sql failed")
	assert.Contains(t, failed, "syntax error")

	noMsg := r.SQLResult(toolsgen.ExecuteSQLOutput{ID: "x"})
	assert.Contains(t, noMsg, "query failed")

	res := sampleSQL()
	res.ColumnNames = nil
	res.RowCount = 5
	derived := r.SQLResult(res)
	assert.Contains(t, derived, "rating")
	assert.Contains(t, derived, "row_count says 5, got 3")

	empty := r.SQLResult(toolsgen.ExecuteSQLOutput{ID: "x", Success: true, Query: "SELECT 1 WHERE 0"})
	assert.Contains(t, empty, "(no columns)")
}

func sampleChart() toolsgen.RenderChartOutput {
	return toolsgen.RenderChartOutput{
		Success:   true,
		ChartID:   "c1",
		ChartType: "bar",
		Rows: []map[string]any{
			{"genre": "Drama", "n": 4.0},
			{"genre": "Crime", "n": 2.0},
			{"genre": "Other", "n": "many"},
		},
		Config: toolsgen.RenderChart_ChartConfig{
			ChartType: "bar",
			XKey:      "genre",
			YKeys:     []string{"n"},
			Title:     ptr("Movies per genre"),
			YLabel:    ptr("count"),
		},
		Explanation: ptr("Drama leads."),
	}
}

func TestChart(t *testing.T) {
	t.Parallel()
	out := New(WithBarWidth(10)).Chart(sampleChart())
	assert.Contains(t, out, "Movies per genre")
	assert.Contains(t, out, "(bar, 3 points)")
	assert.Contains(t, out, "count (n)")
	assert.Contains(t, out, "Drama │"+strings.Repeat("█", 10)+" 4")
	assert.Contains(t, out, "Crime │"+strings.Repeat("█", 5)+" 2")
	assert.Contains(t, out, "Other │ n/a")
	assert.Contains(t, out, "Drama leads.")
	assert.Equal(t, 15, strings.Count(out, "█"))
}

func TestChart_ContractViolations(t *testing.T) {
	t.Parallel()
	r := New()

	failed := sampleChart()
	failed.Success = false
	failed.Error = ptr(`column "year" not found`)
	assert.Contains(t, r.Chart(failed), `column "year" not found`)

	noKeys := sampleChart()
	noKeys.Config.YKeys = nil
	assert.Contains(t, r.Chart(noKeys), "no x_key or y_keys")

	empty := sampleChart()
	empty.Rows = nil
	empty.Config.Title = nil
	out := r.Chart(empty)
	assert.Contains(t, out, "bar chart")
	assert.Contains(t, out, "no data")
}

func TestRenderers_Complete(t *testing.T) {
	t.Parallel()
	assert.Empty(t, New().Renderers().Missing())
	assert.Len(t, New().Renderers().Entries(), len(toolsgen.Tools))
}

func TestNewTable_RenderMessage(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	table := New().NewTable(slog.New(slog.NewTextHandler(&logs, nil)))

	out := table.RenderMessage([]any{
		map[string]any{"type": "text", "text": "Here you go"},
		map[string]any{
			"type":       "tool-get_weather",
			"toolCallId": "call_1",
			"state":      "output-available",
			"output":     map[string]any{"city": "Tokyo", "condition": "rainy", "temperature": 64.0, "humidity": 80},
		},
		map[string]any{"type": "tool-translate", "toolCallId": "call_2", "output": map[string]any{"text": "hola"}},
		map[string]any{"type": "tool-execute_sql", "toolCallId": "call_3", "output": map[string]any{"id": 7}},
	})
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "Tokyo")
	assert.Contains(t, out[0], "☂")
	assert.Contains(t, logs.String(), "no renderer for tool")
	assert.Contains(t, logs.String(), "translate")
}
