package toolserver

import (
	"encoding/json"
	"maps"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// Validatable is implemented by argument structs that need business validation.
// Called after schema validation and unmarshaling.
type Validatable interface {
	Validate() error
}

// ArgsParser generates the argument schema for T and validates raw arguments in
// two layers: JSON Schema, then Validatable.
type ArgsParser[T any] struct {
	schemaMap map[string]any
	resolved  *jsonschema.Resolved
}

// NewArgsParser creates an ArgsParser for T. See WithStrict for strict.
func NewArgsParser[T any](strict bool) (*ArgsParser[T], error) {
	schemaMap, resolved, err := argsSchema[T](strict)
	if err != nil {
		return nil, err
	}
	return &ArgsParser[T]{schemaMap: schemaMap, resolved: resolved}, nil
}

// Schema returns a shallow copy of the argument schema.
func (p *ArgsParser[T]) Schema() map[string]any {
	return maps.Clone(p.schemaMap)
}

// ParseAndValidate decodes args into T. Invalid JSON and validation failures are
// returned as ClientError. Empty args are treated as {}.
func (p *ArgsParser[T]) ParseAndValidate(args []byte) (T, error) {
	var zero T
	if len(args) == 0 {
		args = []byte("{}")
	}
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return zero, badJSON(err)
	}
	if err := p.resolved.Validate(v); err != nil {
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	var out T
	if err := json.Unmarshal(args, &out); err != nil {
		return zero, badJSON(err)
	}
	if err := validateCustom(out); err != nil {
		if IsClientError(err) {
			return zero, err
		}
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return out, nil
}

// validateCustom runs Validatable on args, or on &args for pointer receivers.
func validateCustom[T any](args T) error {
	if v, ok := any(args).(Validatable); ok {
		return v.Validate()
	}
	if typ := reflect.TypeOf(args); typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	if v, ok := any(&args).(Validatable); ok {
		return v.Validate()
	}
	return nil
}
