package terminal

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/skosovsky/toolview/toolsgen"
)

// SQLResult draws an execute_sql result as a table. Rows beyond the configured
// maximum are summarized in the footer.
func (r *Renderer) SQLResult(res toolsgen.ExecuteSQLOutput) string {
	s := r.styles
	if !res.Success {
		msg := "query failed"
		if res.Error != nil && *res.Error != "" {
			msg = *res.Error
		}
		return r.errorPanel("execute_sql", msg)
	}

	cols := res.ColumnNames
	if len(cols) == 0 && len(res.Rows) > 0 {
		cols = slices.Sorted(maps.Keys(res.Rows[0]))
	}
	var b strings.Builder
	b.WriteString(s.muted.Render(truncate(oneLine(res.Query), 80)))
	b.WriteString("\n")
	if len(cols) == 0 {
		b.WriteString(s.label.Render("(no columns)"))
		return b.String()
	}

	shown := res.Rows
	if r.opts.maxRows > 0 && len(shown) > r.opts.maxRows {
		shown = shown[:r.opts.maxRows]
	}
	cells := make([][]string, len(shown))
	for i, row := range shown {
		cells[i] = make([]string, len(cols))
		for j, col := range cols {
			cells[i][j] = FormatCell(row[col], r.opts.cellWidth)
		}
	}
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = truncate(col, r.opts.cellWidth)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})
	b.WriteString(t.String())
	b.WriteString("\n")

	footer := fmt.Sprintf("%d %s", res.RowCount, plural(res.RowCount, "row", "rows"))
	if hidden := len(res.Rows) - len(shown); hidden > 0 {
		footer += fmt.Sprintf(", %d not shown", hidden)
	}
	if int(res.RowCount) != len(res.Rows) {
		footer += fmt.Sprintf(" (row_count says %d, got %d)", res.RowCount, len(res.Rows))
	}
	b.WriteString(s.label.Render(footer + " · " + res.ID))
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
