package thumbnail

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
)

// Replicator performs the best-effort mirroring steps that keep the
// freshness protocol working across backends. It is the single boundary
// where best-effort errors are absorbed: its methods never return an
// error, failures are logged and the operation continues.
type Replicator struct {
	// Logger receives absorbed failures. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

func (r Replicator) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Reconcile mirrors a freshly saved artifact onto the fallback backend
// when doing so makes future freshness checks cheaper. It is a no-op
// when the two backends are the same, when the artifact backend is
// already locally addressable, or when the fallback backend is not.
func (r Replicator) Reconcile(name string, data []byte, artifactBackend, fallbackBackend storage.Backend) {
	if fallbackBackend == nil || artifactBackend == fallbackBackend {
		return
	}
	if _, err := storage.LocalPath(artifactBackend, name); err == nil {
		// Already locally addressable, nothing to gain from a mirror.
		return
	}
	if _, err := storage.LocalPath(fallbackBackend, name); err != nil {
		return
	}

	if _, err := fallbackBackend.Save(name, bytes.NewReader(data)); err != nil {
		wrapped := errors.Wrapf(err, errors.CodeReplicationFailed,
			"mirroring artifact %q to fallback backend", name)
		r.logger().Warn("artifact mirror failed",
			"name", name,
			"code", string(errors.GetCode(wrapped)),
			"error", wrapped)
	}
}

// EnsureSourcePlaceholder writes a zero-byte marker at the source's
// path on the artifact backend, carrying the source's modification time
// into the artifact backend's local filesystem so freshness checks can
// compare timestamps without touching the source backend. Only locally
// addressable artifact backends are touched; existing markers are left
// alone.
func (r Replicator) EnsureSourcePlaceholder(sourceName string, artifactBackend storage.Backend) {
	path, err := storage.LocalPath(artifactBackend, sourceName)
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		err = os.WriteFile(path, nil, 0o644)
	}
	if err != nil {
		wrapped := errors.Wrapf(err, errors.CodeReplicationFailed,
			"writing source placeholder for %q", sourceName)
		r.logger().Warn("source placeholder write failed",
			"source", sourceName,
			"code", string(errors.GetCode(wrapped)),
			"error", wrapped)
	}
}
