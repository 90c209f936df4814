// Package builtin provides the demo tools served by the reference schema
// source: get_weather (deterministic mock), execute_sql (read-only queries over
// a seeded movies database) and render_chart (chart configuration over a cached
// query result).
package builtin
