package toolview

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// asObject reports whether v is a non-null JSON object and returns its fields.
// Raw JSON is decoded; anything else that is not map[string]any is rejected.
func asObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, val != nil
	case json.RawMessage:
		return decodeObject(val)
	case []byte:
		return decodeObject(val)
	default:
		return nil, false
	}
}

// decodeObject keeps numbers as json.Number so integers beyond 2^53 survive the
// re-encode in decodeOutput.
func decodeObject(data []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return m, m != nil
}

// kindOf names the JSON kind of v for log attributes.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	case json.RawMessage, []byte:
		return "raw"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// decodeOutput converts a decoded JSON object into T. Unknown fields are ignored.
func decodeOutput[T any](output map[string]any) (T, error) {
	var v T
	data, err := json.Marshal(output)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}
