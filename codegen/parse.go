package codegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// schemaNode is a JSON Schema object as written, with property order preserved.
// Keywords the compiler cannot represent are captured only to be rejected.
type schemaNode struct {
	Ref                  string                                      `json:"$ref"`
	Type                 typeList                                    `json:"type"`
	Title                string                                      `json:"title"`
	Description          string                                      `json:"description"`
	Properties           *orderedmap.OrderedMap[string, *schemaNode] `json:"properties"`
	Required             []string                                    `json:"required"`
	Items                *schemaNode                                 `json:"items"`
	AdditionalProperties *schemaNode                                 `json:"additionalProperties"`
	AnyOf                []*schemaNode                               `json:"anyOf"`
	OneOf                []*schemaNode                               `json:"oneOf"`
	AllOf                []*schemaNode                               `json:"allOf"`
	Enum                 []any                                       `json:"enum"`
	Const                json.RawMessage                             `json:"const"`
	Defs                 *orderedmap.OrderedMap[string, *schemaNode] `json:"$defs"`
	Definitions          *orderedmap.OrderedMap[string, *schemaNode] `json:"definitions"`

	Not               json.RawMessage `json:"not"`
	If                json.RawMessage `json:"if"`
	Then              json.RawMessage `json:"then"`
	Else              json.RawMessage `json:"else"`
	PrefixItems       json.RawMessage `json:"prefixItems"`
	PatternProperties json.RawMessage `json:"patternProperties"`
	DependentSchemas  json.RawMessage `json:"dependentSchemas"`
	DynamicRef        json.RawMessage `json:"$dynamicRef"`
	RecursiveRef      json.RawMessage `json:"$recursiveRef"`

	// never marks the boolean schema false, which matches nothing.
	never bool
}

// UnmarshalJSON accepts boolean schemas: true is the empty schema, false matches nothing.
func (s *schemaNode) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*s = schemaNode{}
		return nil
	case "false":
		*s = schemaNode{never: true}
		return nil
	}
	type plain schemaNode
	return json.Unmarshal(data, (*plain)(s))
}

// unsupported returns the first keyword present that the compiler cannot represent.
func (s *schemaNode) unsupported() string {
	keywords := []struct {
		name string
		raw  json.RawMessage
	}{
		{"not", s.Not},
		{"if", s.If},
		{"then", s.Then},
		{"else", s.Else},
		{"prefixItems", s.PrefixItems},
		{"patternProperties", s.PatternProperties},
		{"dependentSchemas", s.DependentSchemas},
		{"$dynamicRef", s.DynamicRef},
		{"$recursiveRef", s.RecursiveRef},
	}
	for _, k := range keywords {
		if len(k.raw) > 0 {
			return k.name
		}
	}
	return ""
}

// isNullOnly reports whether s is exactly {"type": "null"}, the null branch of a union.
func (s *schemaNode) isNullOnly() bool {
	return s != nil && len(s.Type) == 1 && s.Type[0] == "null" &&
		s.Ref == "" && s.Properties == nil && s.Items == nil &&
		len(s.AnyOf) == 0 && len(s.OneOf) == 0 && len(s.AllOf) == 0
}

// nonNullTypes returns the declared types without "null" and whether "null" was present.
func (s *schemaNode) nonNullTypes() ([]string, bool) {
	nullable := slices.Contains(s.Type, "null")
	types := slices.DeleteFunc(slices.Clone(s.Type), func(t string) bool { return t == "null" })
	return types, nullable
}

// typeList is the "type" keyword: a single type name or an array of them.
type typeList []string

func (t *typeList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = typeList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("\"type\" must be a string or an array of strings")
	}
	*t = many
	return nil
}
