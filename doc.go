// Package toolview classifies tool results in a chat message stream and
// routes them to typed renderers.
//
// # Overview
//
// A chat UI receives message parts as loosely typed JSON. Tool results arrive as
// parts whose type is "tool-<name>" and whose output conforms to the JSON Schema
// the backend publishes for that tool. Package codegen turns those schemas into
// Go types; this package is the runtime half:
//
// Pipeline: stream part → Extractor.Extract (shape checks) → ToolPart →
// Table.Dispatch (name lookup, decode into the generated type) → renderer → R.
//
// # Key concepts
//
//   - Untrusted input: Extract never panics; anything that is not a well formed
//     tool result is reported as "not a tool part" and logged.
//   - Non-fatal misses: a tool without a renderer, or an output that does not
//     decode, renders nothing. One bad part never stops the rest of a message.
//   - Open records: unknown output fields are ignored when decoding, so the
//     backend can add fields before the generated types are refreshed.
//
// # Example
//
//	table := toolview.NewTable(toolsgen.Renderers[string]{
//	    GetWeather: func(w toolsgen.GetWeatherOutput) string { return w.City },
//	}.Entries())
//	out, ok := table.Dispatch("get_weather", map[string]any{"city": "Tokyo", "temperature": 18})
package toolview
