package errors

import "fmt"

// thumbError is the concrete implementation of Error.
// It is private to enforce construction through package functions.
type thumbError struct {
	code     ErrorCode
	severity Severity
	message  string
	context  map[string]interface{}
	cause    error
}

// Error returns the string representation of the error.
// Format: "[CODE] message" or "[CODE] message: cause" if cause is present.
func (e *thumbError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *thumbError) Code() ErrorCode {
	return e.code
}

// Severity returns the error severity.
func (e *thumbError) Severity() Severity {
	return e.severity
}

// Message returns the error message.
func (e *thumbError) Message() string {
	return e.message
}

// Context returns a defensive copy of the context map.
// Returns nil if no context has been attached.
func (e *thumbError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	ctx := make(map[string]interface{}, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *thumbError) Unwrap() error {
	return e.cause
}
