package utils

import "fmt"

// ContextError attaches the operation being performed to an underlying
// error.
type ContextError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *ContextError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error. It returns nil for a nil cause so
// call sites can wrap unconditionally.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &ContextError{
		Context: context,
		Cause:   cause,
	}
}

// WrapErrorf is WrapError with a formatted context.
func WrapErrorf(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return WrapError(fmt.Sprintf(format, args...), cause)
}
