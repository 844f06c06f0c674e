package errors

// Error extends the standard error interface with structured
// information for consistent handling across the cache.
//
// Error provides codes for categorization, severity for the
// propagation policy, contextual metadata, and compatibility with
// standard library error handling (errors.Is, errors.As,
// errors.Unwrap).
type Error interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Severity returns whether the error is fatal or best-effort.
	Severity() Severity

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error for errors.Is and errors.As
	// compatibility. Returns nil if this error wraps nothing.
	Unwrap() error
}
