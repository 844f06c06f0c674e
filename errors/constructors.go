package errors

import "fmt"

// New creates a new Error with the given code and message.
// The severity is determined by the error code using default mappings.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidSource, "source has no name and no content")
func New(code ErrorCode, message string) Error {
	return &thumbError{
		code:     code,
		severity: getDefaultSeverity(code),
		message:  message,
	}
}

// Newf creates a new Error with a formatted message.
// The severity is determined by the error code using default mappings.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidConfig, "quality %d out of range [1,100]", q)
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return &thumbError{
		code:     code,
		severity: getDefaultSeverity(code),
		message:  fmt.Sprintf(format, args...),
	}
}
