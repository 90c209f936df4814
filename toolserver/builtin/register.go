package builtin

import (
	"database/sql"
	"fmt"

	"github.com/skosovsky/toolview/toolserver"
)

// Register adds get_weather, execute_sql and render_chart to reg, in that order.
// execute_sql queries db; open it with OpenMovies.
func Register(reg *toolserver.Registry, db *sql.DB, opts ...Option) error {
	o := buildOptions(opts)
	cache, err := NewResultCache(o.cacheSize)
	if err != nil {
		return fmt.Errorf("result cache: %w", err)
	}
	weather, err := NewWeatherTool()
	if err != nil {
		return fmt.Errorf("get_weather: %w", err)
	}
	sqlTool, err := NewSQLTool(db, cache, o.maxRows)
	if err != nil {
		return fmt.Errorf("execute_sql: %w", err)
	}
	chart, err := NewChartTool(cache)
	if err != nil {
		return fmt.Errorf("render_chart: %w", err)
	}
	for _, t := range []toolserver.Tool{weather, sqlTool, chart} {
		reg.Register(t)
	}
	o.logger.Info("builtin tools registered", "tools", reg.Names(), "cache_size", o.cacheSize, "max_rows", o.maxRows)
	return nil
}
