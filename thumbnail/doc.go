// Package thumbnail implements the cache-naming, existence, and
// freshness protocol for derived image artifacts across heterogeneous
// storage backends.
//
// The public entry point is the Thumbnailer facade:
//
//	t, err := thumbnail.New("photos/cat.jpg", thumbnail.Config{
//	    SourceBackend:    sourceBackend,
//	    ThumbnailBackend: thumbBackend,
//	    Engine:           &imaging.Engine{},
//	})
//	art, err := t.Get(thumbnail.Options{Size: thumbnail.Size{Width: 100, Height: 75}})
//
// Get computes the canonical artifact name, asks the freshness oracle
// whether the cached artifact is usable, and either returns a lazy
// handle to the stored object (cache hit) or regenerates, stores, and
// reconciles placeholder copies across backends (cache miss).
//
// The package deliberately provides no cross-process mutual exclusion
// on generation of the same artifact name: concurrent callers may both
// regenerate, and the last store wins. Generation is deterministic and
// stores are overwrite-safe, so this trade is simplicity, not an
// oversight. Freshness is checked once per call, at call start.
package thumbnail
