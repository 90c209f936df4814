package builtin

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/skosovsky/toolview/toolserver"
)

// ChartTypes lists the chart types render_chart accepts.
var ChartTypes = []string{
	"line", "bar", "area", "scatter", "composed",
	"radar", "radial_bar",
	"pie", "funnel", "treemap", "sankey",
}

// ChartArgs are the arguments of render_chart.
type ChartArgs struct {
	ResultID    string   `json:"result_id" description:"The id of a previous execute_sql result"`
	ChartType   string   `json:"chart_type" enum:"line,bar,area,scatter,composed,radar,radial_bar,pie,funnel,treemap,sankey"`
	XKey        string   `json:"x_key" description:"Column for the x axis, or the category for pie, funnel and treemap"`
	YKeys       []string `json:"y_keys" description:"Columns for the y axis values"`
	Title       *string  `json:"title,omitempty"`
	XLabel      *string  `json:"x_label,omitempty"`
	YLabel      *string  `json:"y_label,omitempty"`
	Explanation *string  `json:"explanation,omitempty" description:"What the chart shows"`
}

// Validate rejects charts without values and keys listed twice.
func (a ChartArgs) Validate() error {
	if len(a.YKeys) == 0 {
		return errors.New("y_keys must name at least one column")
	}
	seen := make(map[string]bool, len(a.YKeys))
	for _, k := range a.YKeys {
		if seen[k] {
			return fmt.Errorf("y_keys lists %q twice", k)
		}
		seen[k] = true
	}
	return nil
}

// ChartConfig is the rendering configuration of a chart.
type ChartConfig struct {
	ChartType string   `json:"chart_type" jsonschema:"enum=line,enum=bar,enum=area,enum=scatter,enum=composed,enum=radar,enum=radial_bar,enum=pie,enum=funnel,enum=treemap,enum=sankey"`
	XKey      string   `json:"x_key"`
	YKeys     []string `json:"y_keys"`
	Title     *string  `json:"title,omitempty" jsonschema:"nullable"`
	XLabel    *string  `json:"x_label,omitempty" jsonschema:"nullable"`
	YLabel    *string  `json:"y_label,omitempty" jsonschema:"nullable"`
}

// JSONSchemaExtend sets the schema description.
func (ChartConfig) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "Chart rendering configuration."
}

// ChartResult is the output of render_chart. A failed rendering is reported in
// the result (Success false, Error set) rather than as a tool error.
type ChartResult struct {
	Success     bool        `json:"success"`
	ChartID     string      `json:"chart_id"`
	ChartType   string      `json:"chart_type"`
	Rows        []Row       `json:"rows"`
	Config      ChartConfig `json:"config"`
	Error       *string     `json:"error,omitempty" jsonschema:"nullable"`
	Explanation *string     `json:"explanation,omitempty" jsonschema:"nullable"`
}

// JSONSchemaExtend sets the schema description.
func (ChartResult) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "Chart rendering result."
}

// NewChartTool builds render_chart over the results stored in cache.
func NewChartTool(cache *ResultCache) (toolserver.Tool, error) {
	return toolserver.NewTool("render_chart",
		"Render a chart from a cached execute_sql result. Cartesian charts: line, bar, area, scatter, composed. "+
			"Polar charts: radar, radial_bar. Other: pie, funnel, treemap, sankey.",
		func(_ context.Context, args ChartArgs) (ChartResult, error) {
			return renderChart(cache, args), nil
		},
	)
}

func renderChart(cache *ResultCache, args ChartArgs) ChartResult {
	rows, err := chartRows(cache, args)
	if err != nil {
		msg := err.Error()
		return ChartResult{
			Success:   false,
			ChartID:   shortID(),
			ChartType: args.ChartType,
			Rows:      []Row{},
			Config: ChartConfig{
				ChartType: args.ChartType,
				XKey:      args.XKey,
				YKeys:     nonNil(args.YKeys),
			},
			Error: &msg,
		}
	}
	return ChartResult{
		Success:   true,
		ChartID:   shortID(),
		ChartType: args.ChartType,
		Rows:      rows,
		Config: ChartConfig{
			ChartType: args.ChartType,
			XKey:      args.XKey,
			YKeys:     nonNil(args.YKeys),
			Title:     args.Title,
			XLabel:    args.XLabel,
			YLabel:    args.YLabel,
		},
		Explanation: args.Explanation,
	}
}

// chartRows looks up the cached result and checks that every key is a column of it.
func chartRows(cache *ResultCache, args ChartArgs) ([]Row, error) {
	rows, ok := cache.Get(args.ResultID)
	if !ok {
		return nil, fmt.Errorf("result %q not found; reference a valid result id from execute_sql", args.ResultID)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	first := rows[0]
	for _, key := range append([]string{args.XKey}, args.YKeys...) {
		if _, ok := first[key]; !ok {
			return nil, fmt.Errorf("column %q not found in result data; available columns: %v",
				key, slices.Sorted(maps.Keys(first)))
		}
	}
	return rows, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
