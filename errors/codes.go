// Package errors provides the structured error system for the
// thumbnail cache. It extends Go's standard error handling with error
// codes, a fatal/best-effort severity classification, context
// preservation, and full errors.Is/As/Unwrap compatibility.
//
// The severity split encodes the cache's propagation policy: fatal
// errors (invalid source, failed transform) cross the public boundary;
// best-effort errors (failed placeholder mirror, failed pre-store
// delete) are absorbed at a single named boundary and at most logged,
// because the authoritative operation already succeeded or can proceed
// without them.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural logging.
type ErrorCode string

const (
	// Source errors.

	// CodeInvalidSource indicates the supplied source cannot be
	// classified into a recognized shape (no name, no byte content).
	CodeInvalidSource ErrorCode = "INVALID_SOURCE"

	// CodeNotFound indicates a requested object does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidOptions indicates the per-call option set is invalid
	// or malformed (e.g. a non-positive size).
	CodeInvalidOptions ErrorCode = "INVALID_OPTIONS"

	// Pipeline errors.

	// CodeTransformFailed indicates the image decode/resize step failed
	// (corrupt image, unsupported format).
	CodeTransformFailed ErrorCode = "TRANSFORM_FAILED"

	// CodeEncodeFailed indicates encoding the transformed image failed.
	CodeEncodeFailed ErrorCode = "ENCODE_FAILED"

	// Storage errors.

	// CodeStorage indicates a backend read or write failed.
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeReplicationFailed indicates a mirrored placeholder write
	// failed after the authoritative store succeeded.
	CodeReplicationFailed ErrorCode = "REPLICATION_FAILED"

	// CodeStaleDeleteFailed indicates the pre-store delete of an
	// existing object failed; the subsequent save is still attempted.
	CodeStaleDeleteFailed ErrorCode = "STALE_DELETE_FAILED"

	// CodeUnsupported indicates a backend lacks an optional capability.
	// Never surfaced as an error by the cache; recorded for diagnostics.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// Configuration errors.

	// CodeInvalidConfig indicates a configuration error prevents the
	// operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
