package errors

import "fmt"

// Wrap wraps an error with additional context while preserving the
// original error. The wrapped error is accessible via Unwrap() and
// compatible with errors.Is and errors.As.
//
// Severity follows the outermost code: wrapping a fatal storage error
// as CodeReplicationFailed yields a best-effort error, because the
// boundary doing the wrapping is the one that decides the propagation
// policy.
//
// Returns nil if err is nil.
//
// Example:
//
//	data, err := backend.Open(name)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeStorage, "failed to open source")
//	}
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}

	return &thumbError{
		code:     code,
		severity: getDefaultSeverity(code),
		message:  message,
		cause:    err,
	}
}

// Wrapf wraps an error with a formatted message while preserving the
// original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a
// single operation. The context map is copied to prevent external
// mutation.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := mirror(name); err != nil {
//	    return errors.WrapWithContext(err, errors.CodeReplicationFailed, "mirror failed",
//	        map[string]interface{}{"artifact": name, "backend": b.Kind().String()})
//	}
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}

	var contextCopy map[string]interface{}
	if ctx != nil {
		contextCopy = make(map[string]interface{}, len(ctx))
		for k, v := range ctx {
			contextCopy[k] = v
		}
	}

	return &thumbError{
		code:     code,
		severity: getDefaultSeverity(code),
		message:  message,
		context:  contextCopy,
		cause:    err,
	}
}
