package codegen

import (
	"errors"
	"fmt"
)

// Sentinel errors for codegen. Use errors.Is to check.
var (
	ErrUncompilableSchema = errors.New("uncompilable schema")
	ErrNameCollision      = errors.New("generated name collision")
)

// SchemaError reports why one tool's output schema cannot be compiled.
// Path is a JSON Pointer into the tool's schema ("#" is the root).
type SchemaError struct {
	Tool   string
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("tool %q: schema at %s: %s", e.Tool, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap matches ErrUncompilableSchema and, when set, the underlying cause.
func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUncompilableSchema, e.Err}
	}
	return []error{ErrUncompilableSchema}
}
