// Package engineerror defines the typed errors raised by the matching and
// classification engine. Only top-level input-shape problems surface as
// errors; record-level anomalies degrade scores instead.
package engineerror

import "fmt"

// InputError represents a malformed top-level call, such as an empty GL
// chart or an out-of-range tolerance. Nothing is partially computed when
// an InputError is returned.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// NewInputError creates an InputError for the given field.
func NewInputError(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

// StoreError wraps a pattern store read or write failure. Read failures are
// recovered as a cold start; write failures surface to the correction caller.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("pattern store %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
