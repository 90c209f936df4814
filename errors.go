package toolview

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Table.Render. Use errors.Is to check.
var (
	ErrNoRenderer        = errors.New("no renderer registered for tool")
	ErrMalformedOutput   = errors.New("tool output is not a JSON object")
	ErrContractViolation = errors.New("tool output does not match its declared type")
	ErrRendererPanic     = errors.New("renderer panicked")
)

// panicError carries a value recovered from a renderer.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}

func (e *panicError) Unwrap() error { return ErrRendererPanic }
