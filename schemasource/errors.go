package schemasource

import (
	"errors"
	"fmt"
)

// Sentinel errors for schemasource. Use errors.Is to check.
var (
	ErrSourceUnreachable = errors.New("schema source unreachable")
	ErrMalformedDocument = errors.New("malformed tools schema document")
)

// SourceError describes a failed request to the schema source: a transport failure
// (Err set) or a non-success status (StatusCode set). It matches ErrSourceUnreachable.
type SourceError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("schema source %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("schema source %s: %v", e.URL, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSourceUnreachable, e.Err}
	}
	return []error{ErrSourceUnreachable}
}
