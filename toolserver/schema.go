package toolserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

var errNilSchema = errors.New("schema reflection returned nil")

// argsSchema reflects the argument schema of T and resolves it for validation.
// The `description` and `enum` struct tags annotate properties at any depth.
// Structs never accept unknown properties; strict also requires every property.
func argsSchema[T any](strict bool) (map[string]any, *jsonschema.Resolved, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, errNilSchema
	}
	annotate(s, reflect.TypeFor[T]())
	if strict {
		requireAll(s)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve argument schema: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, nil, err
	}
	return params, resolved, nil
}

// annotate copies the description and enum tags of typ's fields onto s.
func annotate(s *jsonschema.Schema, typ reflect.Type) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		if s.Items != nil {
			annotate(s.Items, typ.Elem())
		}
		return
	case reflect.Struct:
	default:
		return
	}
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			prop.Enum = nil
			for v := range strings.SplitSeq(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}
		annotate(prop, field.Type)
	}
}

// requireAll marks every property of every object in s as required.
func requireAll(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if len(s.Properties) > 0 {
		s.Required = slices.Sorted(maps.Keys(s.Properties))
		for _, prop := range s.Properties {
			requireAll(prop)
		}
	}
	requireAll(s.Items)
	for _, def := range s.Defs {
		requireAll(def)
	}
}
