package errors

// Severity indicates whether an error crosses the cache's public
// boundary or is absorbed internally as a best-effort degradation.
type Severity string

const (
	// SeverityFatal indicates the operation failed and the error must
	// be surfaced to the caller. Examples: invalid source, transform
	// failure, storage failure on the authoritative save.
	SeverityFatal Severity = "FATAL"

	// SeverityBestEffort indicates an optimization step failed but the
	// operation as a whole succeeded. Examples: placeholder mirroring,
	// pre-store delete of a stale object. These are absorbed and at
	// most logged.
	SeverityBestEffort Severity = "BEST_EFFORT"
)

// IsFatal returns true if the severity requires surfacing the error.
func (s Severity) IsFatal() bool {
	return s == SeverityFatal
}

// defaultSeverities maps error codes to their default severity.
// This encodes the propagation policy for each error category.
var defaultSeverities = map[ErrorCode]Severity{
	// Fatal errors (surfaced to the caller)
	CodeInvalidSource:   SeverityFatal,
	CodeInvalidOptions:  SeverityFatal,
	CodeNotFound:        SeverityFatal,
	CodeTransformFailed: SeverityFatal,
	CodeEncodeFailed:    SeverityFatal,
	CodeStorage:         SeverityFatal,
	CodeInvalidConfig:   SeverityFatal,
	CodeInternal:        SeverityFatal,
	CodeUnknown:         SeverityFatal,

	// Best-effort errors (absorbed; caching degrades gracefully)
	CodeReplicationFailed: SeverityBestEffort,
	CodeStaleDeleteFailed: SeverityBestEffort,
	CodeUnsupported:       SeverityBestEffort,
}

// getDefaultSeverity returns the default severity for an error code.
// Returns SeverityFatal if the code is not in the map (safe default:
// never silently swallow an unclassified failure).
func getDefaultSeverity(code ErrorCode) Severity {
	if sev, ok := defaultSeverities[code]; ok {
		return sev
	}
	return SeverityFatal
}
