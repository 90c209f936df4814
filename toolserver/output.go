package toolserver

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// outputSchema reflects the JSON Schema of R. Struct fields keep declaration
// order; named nested structs are placed under $defs and referenced by
// "#/$defs/<Name>". Fields without omitempty are required. Mark a field that
// may be null with `jsonschema:"nullable"`.
func outputSchema[R any]() (json.RawMessage, error) {
	typ := reflect.TypeFor[R]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("output type %s is not a struct", typ)
	}
	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
		Anonymous:                 true,
	}
	s := r.ReflectFromType(typ)
	s.Version = ""
	s.ID = ""
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal output schema: %w", err)
	}
	return data, nil
}
