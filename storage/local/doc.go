// Package local provides go-billy-backed storage backends.
//
// LocalBackend wraps billy's osfs rooted at a media directory and
// implements the full capability set (LocalPather, Lister), making it
// the cheap side of cross-backend freshness checks.
//
// MemoryBackend wraps billy's memfs. It deliberately does NOT implement
// LocalPather: an in-memory store has no filesystem projection, which
// makes it the standard in-process stand-in for a remote backend in
// tests exercising the degraded freshness paths.
//
// Usage:
//
//	src, err := local.New("/srv/media")
//	data, err := src.Open("photos/cat.jpg")
//
// # Thread Safety
//
// Both backends are safe for concurrent use to the same extent as the
// underlying billy filesystems.
package local
