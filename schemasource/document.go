package schemasource

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tool is one entry of the tools schema document.
// Output is nil when the tool declares no output schema.
type Tool struct {
	Name   string
	Output json.RawMessage
}

// Document is a decoded tools schema response, in response order.
type Document struct {
	Tools []Tool
}

// Names returns the tool names in document order.
func (d *Document) Names() []string {
	names := make([]string, len(d.Tools))
	for i, t := range d.Tools {
		names[i] = t.Name
	}
	return names
}

// WithOutput returns the tools that declare an output schema, in document order.
func (d *Document) WithOutput() []Tool {
	var out []Tool
	for _, t := range d.Tools {
		if t.Output != nil {
			out = append(out, t)
		}
	}
	return out
}

type toolEntry struct {
	Output json.RawMessage `json:"output"`
}

type envelope struct {
	Tools *orderedmap.OrderedMap[string, toolEntry] `json:"tools"`
}

// Decode parses a tools schema document, preserving tool order.
func Decode(data []byte) (*Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if env.Tools == nil {
		return nil, fmt.Errorf("%w: missing \"tools\" object", ErrMalformedDocument)
	}
	doc := &Document{Tools: make([]Tool, 0, env.Tools.Len())}
	for pair := env.Tools.Oldest(); pair != nil; pair = pair.Next() {
		output := pair.Value.Output
		if isNull(output) {
			output = nil
		}
		doc.Tools = append(doc.Tools, Tool{Name: pair.Key, Output: output})
	}
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
