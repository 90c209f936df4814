package toolview

import (
	"log/slog"
	"strings"
)

// Wire constants of UI message stream parts.
const (
	ToolPartPrefix       = "tool-"
	StateOutputAvailable = "output-available"
)

// ToolPart is a tool result recovered from one message stream element.
// Output shares its maps with the input part; callers must not mutate it.
type ToolPart struct {
	ToolName string
	CallID   string
	Output   map[string]any
}

// Extractor recognizes tool result parts in a message stream.
// It holds no state besides its logger and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	o := buildOptions(opts)
	return &Extractor{logger: o.logger}
}

// Extract classifies part and, when it is a completed tool result, returns the bare
// tool name and its output. part may be a decoded JSON value (map[string]any) or raw
// JSON (json.RawMessage, []byte).
//
// Parts that are not tool results (not an object, no string "type", a type without
// the "tool-" prefix, or a tool part still streaming) return false and are logged at
// debug level. A tool part whose "output" is missing or not an object also returns
// false and is logged as a warning.
func (e *Extractor) Extract(part any) (ToolPart, bool) {
	fields, ok := asObject(part)
	if !ok {
		e.logger.Debug("stream part is not an object", "kind", kindOf(part))
		return ToolPart{}, false
	}
	typ, ok := fields["type"].(string)
	if !ok {
		e.logger.Debug("stream part has no type", "kind", kindOf(fields["type"]))
		return ToolPart{}, false
	}
	name, ok := strings.CutPrefix(typ, ToolPartPrefix)
	if !ok || name == "" {
		e.logger.Debug("stream part is not a tool result", "type", typ)
		return ToolPart{}, false
	}
	if state, ok := fields["state"].(string); ok && state != StateOutputAvailable {
		e.logger.Debug("tool part has no output yet", "tool", name, "state", state)
		return ToolPart{}, false
	}
	raw, present := fields["output"]
	output, ok := raw.(map[string]any)
	if !ok || output == nil {
		kind := kindOf(raw)
		if !present {
			kind = "missing"
		}
		e.logger.Warn("malformed tool part output", "tool", name, "output", kind)
		return ToolPart{}, false
	}
	callID, _ := fields["toolCallId"].(string)
	return ToolPart{ToolName: name, CallID: callID, Output: output}, true
}
