package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns CodeUnknown if the error is nil or not an Error.
//
// This function handles the error chain and extracts the code from the
// outermost Error in the chain.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeInvalidSource {
//	    // reject the request
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var thumbErr Error
	if stderrors.As(err, &thumbErr) {
		return thumbErr.Code()
	}

	return CodeUnknown
}

// GetSeverity extracts the Severity from an error.
// Returns SeverityFatal if the error is nil or not an Error — the safe
// default is to surface, never to silently swallow.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityFatal
	}

	var thumbErr Error
	if stderrors.As(err, &thumbErr) {
		return thumbErr.Severity()
	}

	return SeverityFatal
}

// IsFatal returns true if the error must cross the public boundary.
// Returns true for nil-safety reasons only when err is non-nil and
// unclassified; callers are expected to check err != nil first.
//
// Example:
//
//	if err := replicator.Reconcile(...); err != nil && errors.IsFatal(err) {
//	    return err
//	}
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetSeverity(err).IsFatal()
}
