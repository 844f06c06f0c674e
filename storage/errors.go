package storage

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when an object does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when an object already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrUnsupported is returned when a backend lacks an optional
	// capability, e.g. LocalPath on an object store. Callers treat it
	// as a negative capability signal, not a failure.
	ErrUnsupported = errors.New("operation not supported")
)
