// Package storage defines the backend contract used by the thumbnail
// cache to read source images and persist derived artifacts.
//
// A Backend abstracts one storage location (local disk, in-memory,
// S3-compatible object storage). The interface is intentionally small:
// existence, read, save, delete. Everything else is an optional
// capability discovered through type assertion:
//
//   - LocalPather: backends with a real filesystem projection resolve
//     stored names to absolute paths. Backends without one (object
//     stores, in-memory) do not implement it, or return ErrUnsupported.
//   - Lister: backends that can enumerate stored names under a prefix.
//
// The capability split carries the freshness protocol: modification
// times can only be compared between locally addressable files, so the
// cache degrades to pure existence checks when neither side of a
// comparison resolves a local path. A failed capability probe is a
// negative signal, never an error.
//
// # Thread Safety
//
// Backends are shared resources. Implementations in this repository are
// safe for concurrent use; the cache layer holds no cross-call backend
// state and relies on backends tolerating concurrent reads and writes
// of the same key (last write wins).
package storage
