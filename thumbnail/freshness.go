package thumbnail

import (
	"os"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
)

// Verdict is the result of a freshness check on a cached artifact.
type Verdict int

const (
	// VerdictAbsent means no artifact exists; it must be generated.
	VerdictAbsent Verdict = iota
	// VerdictStale means the artifact exists but the source has been
	// modified since it was written; it must be regenerated.
	VerdictStale
	// VerdictFresh means the artifact exists and is at least as new as
	// the source.
	VerdictFresh
	// VerdictUnverified means the artifact exists but no modification
	// times could be compared (neither backend is locally addressable).
	// Callers treat it as usable.
	VerdictUnverified
)

// String returns a string representation of the Verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAbsent:
		return "absent"
	case VerdictStale:
		return "stale"
	case VerdictFresh:
		return "fresh"
	case VerdictUnverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// Usable reports whether a cached artifact with this verdict may be
// returned without regeneration.
func (v Verdict) Usable() bool {
	return v == VerdictFresh || v == VerdictUnverified
}

// CheckFreshness decides whether the cached artifact named artifactName
// on artifactBackend is usable relative to the source named sourceName
// on sourceBackend.
//
// The decision degrades gracefully with backend capabilities. Local
// path resolution is attempted on both sides, giving four cases:
//
//  1. Neither side resolves: pure remote existence check on the
//     artifact backend. Present objects are Unverified, not Fresh,
//     since no modification times can be compared.
//  2. Only the artifact side resolves: the source name is resolved on
//     the artifact backend instead, where a mirrored placeholder is
//     expected (see Replicator).
//  3. Only the source side resolves: symmetric, the artifact name is
//     resolved on the source backend.
//  4. Both resolve: both paths are used directly.
//
// With local paths in hand: a missing artifact file is Absent; a
// missing source file is Fresh (nothing to compare against, assume the
// cache is valid); otherwise Fresh iff the source's mtime is not after
// the artifact's.
func CheckFreshness(sourceName, artifactName string, sourceBackend, artifactBackend storage.Backend) (Verdict, error) {
	sourcePath, sourceOK := resolveLocal(sourceBackend, sourceName)
	artifactPath, artifactOK := resolveLocal(artifactBackend, artifactName)

	switch {
	case !sourceOK && !artifactOK:
		// Worst case: remote on both sides, existence is all we get.
		exists, err := artifactBackend.Exists(artifactName)
		if err != nil {
			return VerdictAbsent, errors.Wrap(err, errors.CodeStorage,
				"remote existence check failed")
		}
		if exists {
			return VerdictUnverified, nil
		}
		return VerdictAbsent, nil

	case !sourceOK:
		// Cross-backend fallback: the mirrored source placeholder on
		// the artifact backend stands in for the real source.
		sourcePath, sourceOK = resolveLocal(artifactBackend, sourceName)

	case !artifactOK:
		artifactPath, artifactOK = resolveLocal(sourceBackend, artifactName)
	}

	if !sourceOK || !artifactOK {
		// A backend advertised LocalPather but failed resolution;
		// treat like the no-paths case rather than erroring out.
		exists, err := artifactBackend.Exists(artifactName)
		if err != nil {
			return VerdictAbsent, errors.Wrap(err, errors.CodeStorage,
				"remote existence check failed")
		}
		if exists {
			return VerdictUnverified, nil
		}
		return VerdictAbsent, nil
	}

	artifactInfo, err := os.Stat(artifactPath)
	if err != nil {
		return VerdictAbsent, nil
	}
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return VerdictFresh, nil
	}

	if sourceInfo.ModTime().After(artifactInfo.ModTime()) {
		return VerdictStale, nil
	}
	return VerdictFresh, nil
}

// resolveLocal probes the LocalPather capability, folding both a
// missing implementation and a resolution failure into a negative
// signal.
func resolveLocal(b storage.Backend, name string) (string, bool) {
	path, err := storage.LocalPath(b, name)
	if err != nil {
		return "", false
	}
	return path, true
}
