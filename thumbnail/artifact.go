package thumbnail

import (
	"bytes"
	"image"
	"io"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
)

// Artifact is a handle to a cached thumbnail. It carries the canonical
// name and the backend holding the bytes; content and dimensions are
// materialized lazily for handles that came from a cache hit.
type Artifact struct {
	name    string
	backend storage.Backend

	// data is populated eagerly for freshly generated artifacts and
	// lazily for stored ones.
	data []byte

	// bounds is populated at generation time or on first Dimensions
	// call for stored artifacts.
	bounds *image.Rectangle
}

// NewStoredArtifact returns a handle to an artifact already present on
// the backend. No I/O happens until the content or dimensions are
// requested.
func NewStoredArtifact(name string, backend storage.Backend) *Artifact {
	return &Artifact{name: name, backend: backend}
}

// newGeneratedArtifact returns a handle carrying freshly encoded bytes
// and the bounds of the transformed image.
func newGeneratedArtifact(name string, backend storage.Backend, data []byte, bounds image.Rectangle) *Artifact {
	return &Artifact{name: name, backend: backend, data: data, bounds: &bounds}
}

// Name returns the canonical artifact name.
func (a *Artifact) Name() string {
	return a.name
}

// Backend returns the backend holding the artifact.
func (a *Artifact) Backend() storage.Backend {
	return a.backend
}

// Open returns a reader over the artifact content.
func (a *Artifact) Open() (io.ReadCloser, error) {
	if a.data != nil {
		return io.NopCloser(bytes.NewReader(a.data)), nil
	}
	rc, err := a.backend.Open(a.name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeStorage,
			"opening artifact %q", a.name)
	}
	return rc, nil
}

// Bytes returns the full artifact content, reading it from the backend
// on first call for stored handles.
func (a *Artifact) Bytes() ([]byte, error) {
	if a.data != nil {
		return a.data, nil
	}
	rc, err := a.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeStorage,
			"reading artifact %q", a.name)
	}
	a.data = data
	return a.data, nil
}

// Dimensions returns the artifact's pixel bounds, decoding the stored
// content on first call when they were not recorded at generation time.
func (a *Artifact) Dimensions() (width, height int, err error) {
	if a.bounds == nil {
		data, err := a.Bytes()
		if err != nil {
			return 0, 0, err
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0, errors.Wrapf(err, errors.CodeTransformFailed,
				"decoding artifact %q", a.name)
		}
		bounds := image.Rect(0, 0, cfg.Width, cfg.Height)
		a.bounds = &bounds
	}
	return a.bounds.Dx(), a.bounds.Dy(), nil
}

// LocalPath resolves the artifact to a filesystem path when the backend
// supports it, otherwise storage.ErrUnsupported.
func (a *Artifact) LocalPath() (string, error) {
	return storage.LocalPath(a.backend, a.name)
}
