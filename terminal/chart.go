package terminal

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/skosovsky/toolview/toolsgen"
)

// Chart draws a render_chart result as horizontal bars, one group per y key.
// Values that are not numbers are drawn as empty bars.
func (r *Renderer) Chart(c toolsgen.RenderChartOutput) string {
	s := r.styles
	if !c.Success {
		msg := "chart could not be rendered"
		if c.Error != nil && *c.Error != "" {
			msg = *c.Error
		}
		return r.errorPanel("render_chart", msg)
	}
	cfg := c.Config
	if cfg.XKey == "" || len(cfg.YKeys) == 0 {
		return r.errorPanel("render_chart", "chart config has no x_key or y_keys")
	}

	var b strings.Builder
	title := cfg.ChartType + " chart"
	if cfg.Title != nil && *cfg.Title != "" {
		title = *cfg.Title
	}
	b.WriteString(s.title.Render(title))
	b.WriteString(s.label.Render(fmt.Sprintf("  (%s, %d points)", cfg.ChartType, len(c.Rows))))
	b.WriteString("\n")
	if len(c.Rows) == 0 {
		b.WriteString(s.label.Render("no data"))
		return b.String()
	}

	labels := make([]string, len(c.Rows))
	labelWidth := 0
	for i, row := range c.Rows {
		labels[i] = FormatCell(row[cfg.XKey], r.opts.cellWidth)
		labelWidth = max(labelWidth, utf8.RuneCountInString(labels[i]))
	}
	for _, key := range cfg.YKeys {
		b.WriteString(r.series(c.Rows, labels, labelWidth, key, axisLabel(cfg.YLabel, key)))
	}
	if cfg.XLabel != nil && *cfg.XLabel != "" {
		b.WriteString(s.label.Render("x: " + *cfg.XLabel))
		b.WriteString("\n")
	}
	if c.Explanation != nil && *c.Explanation != "" {
		b.WriteString(s.muted.Render(*c.Explanation))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) series(rows []map[string]any, labels []string, labelWidth int, key, heading string) string {
	s := r.styles
	values := make([]float64, len(rows))
	ok := make([]bool, len(rows))
	peak := 0.0
	for i, row := range rows {
		values[i], ok[i] = number(row[key])
		if ok[i] {
			peak = max(peak, math.Abs(values[i]))
		}
	}
	var b strings.Builder
	b.WriteString(s.label.Render(heading))
	b.WriteString("\n")
	for i, label := range labels {
		bar := ""
		value := "n/a"
		if ok[i] {
			bar = strings.Repeat("█", barLen(values[i], peak, r.opts.barWidth))
			value = formatNumber(values[i])
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(label))
		fmt.Fprintf(&b, "%s%s │%s %s\n", s.value.Render(label), pad, s.bar.Render(bar), s.value.Render(value))
	}
	return b.String()
}

// barLen scales |v| against peak to at most width cells; any non-zero value gets one cell.
func barLen(v, peak float64, width int) int {
	if peak == 0 || v == 0 {
		return 0
	}
	n := int(math.Round(math.Abs(v) / peak * float64(width)))
	return max(n, 1)
}

func axisLabel(label *string, key string) string {
	if label != nil && *label != "" {
		return *label + " (" + key + ")"
	}
	return key
}
