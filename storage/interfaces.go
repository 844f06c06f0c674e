package storage

import "io"

// Kind represents the underlying type of a storage backend.
type Kind int

const (
	// KindUnknown indicates the backend type is unknown or unspecified.
	KindUnknown Kind = iota
	// KindLocal indicates a disk-backed local backend.
	KindLocal
	// KindMemory indicates an in-memory backend.
	KindMemory
	// KindRemote indicates a remote backend (e.g. S3, cloud storage).
	KindRemote
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindMemory:
		return "memory"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Backend is the storage contract required by the thumbnail cache.
//
// Names are slash-separated paths relative to the backend root. All
// providers MUST implement this interface; optional capabilities
// (LocalPather, Lister) are discovered through type assertion.
type Backend interface {
	// Exists reports whether the named object exists.
	//
	// A false result with a non-nil error means existence could not be
	// determined, not that the object is absent.
	Exists(name string) (bool, error)

	// Open opens the named object for reading. The returned reader must
	// be closed when no longer needed. Returns fs.ErrNotExist (possibly
	// wrapped) when the object is absent.
	Open(name string) (io.ReadCloser, error)

	// Save stores content under the given name, creating any missing
	// intermediate directories and overwriting an existing object. It
	// returns the name the object was actually stored under; backends
	// may rename on collision, and callers must use the echoed name.
	Save(name string, content io.Reader) (string, error)

	// Delete removes the named object. Deleting an absent object is not
	// an error.
	Delete(name string) error

	// Kind returns the underlying backend type. This allows callers to
	// introspect whether the backend is disk-backed, in-memory, or
	// remote, primarily for logging and diagnostics.
	Kind() Kind
}

// LocalPather is an optional capability for backends whose objects are
// addressable on the local filesystem.
//
// Use a type assertion to probe for it, or the LocalPath helper which
// folds a missing implementation into ErrUnsupported:
//
//	if path, err := storage.LocalPath(b, name); err == nil {
//	    info, err := os.Stat(path)
//	    ...
//	}
//
// The returned path is absolute and may point at a file that does not
// exist yet; resolution is a pure name computation, not an existence
// check.
type LocalPather interface {
	// LocalPath resolves a stored name to an absolute filesystem path.
	// Returns an error wrapping ErrUnsupported when the backend has no
	// local filesystem projection.
	LocalPath(name string) (string, error)
}

// Lister is an optional capability for backends that can enumerate
// stored objects.
type Lister interface {
	// List returns the names of all objects stored under the given
	// prefix, recursively. Names are relative to the backend root, in
	// lexical order. A prefix with no objects yields an empty slice.
	List(prefix string) ([]string, error)
}

// LocalPath resolves name to an absolute local path on b, returning
// ErrUnsupported when the backend does not implement LocalPather.
func LocalPath(b Backend, name string) (string, error) {
	lp, ok := b.(LocalPather)
	if !ok {
		return "", ErrUnsupported
	}
	return lp.LocalPath(name)
}

// List enumerates names under prefix on b, returning ErrUnsupported
// when the backend does not implement Lister.
func List(b Backend, prefix string) ([]string, error) {
	l, ok := b.(Lister)
	if !ok {
		return nil, ErrUnsupported
	}
	return l.List(prefix)
}
