package local

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/thumbcache/storage"
)

// LocalBackend stores objects on the local filesystem under a root
// directory. Names are slash-separated paths relative to the root.
//
//nolint:revive // LocalBackend name is intentional to match the naming
// pattern across backend implementations (MemoryBackend, MinioBackend).
type LocalBackend struct {
	bfs  billy.Filesystem
	root string // absolute root, used for LocalPath resolution
}

// MemoryBackend stores objects in memory. It has no local filesystem
// projection and therefore does not implement storage.LocalPather.
type MemoryBackend struct {
	bfs billy.Filesystem
}

// New creates a local backend rooted at the given directory. The
// directory does not need to exist yet; it is created on first save.
func New(root string) (*LocalBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &LocalBackend{
		bfs:  osfs.New(abs),
		root: abs,
	}, nil
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{bfs: memfs.New()}
}

// Unwrap returns the underlying billy.Filesystem.
func (l *LocalBackend) Unwrap() billy.Filesystem {
	return l.bfs
}

// Unwrap returns the underlying billy.Filesystem.
func (m *MemoryBackend) Unwrap() billy.Filesystem {
	return m.bfs
}

// normalize converts names to clean, slash-separated relative paths.
func normalize(name string) string {
	return filepath.ToSlash(filepath.Clean(name))
}

// LocalBackend implementation

// Exists reports whether the named object exists.
func (l *LocalBackend) Exists(name string) (bool, error) {
	return exists(l.bfs, name)
}

// Open opens the named object for reading.
func (l *LocalBackend) Open(name string) (io.ReadCloser, error) {
	return l.bfs.Open(normalize(name))
}

// Save writes content to the named object, creating parent directories
// as needed and truncating any existing object. The stored name is
// echoed back unchanged.
func (l *LocalBackend) Save(name string, content io.Reader) (string, error) {
	return save(l.bfs, name, content)
}

// Delete removes the named object. Absence is not an error.
func (l *LocalBackend) Delete(name string) error {
	return remove(l.bfs, name)
}

// LocalPath resolves a stored name to an absolute filesystem path.
// Resolution is pure name computation; the file may not exist yet.
func (l *LocalBackend) LocalPath(name string) (string, error) {
	return filepath.Join(l.root, filepath.FromSlash(normalize(name))), nil
}

// List returns all object names under prefix, recursively, in lexical order.
func (l *LocalBackend) List(prefix string) ([]string, error) {
	return list(l.bfs, prefix)
}

// Kind returns storage.KindLocal.
func (l *LocalBackend) Kind() storage.Kind {
	return storage.KindLocal
}

// MemoryBackend implementation

// Exists reports whether the named object exists.
func (m *MemoryBackend) Exists(name string) (bool, error) {
	return exists(m.bfs, name)
}

// Open opens the named object for reading.
func (m *MemoryBackend) Open(name string) (io.ReadCloser, error) {
	return m.bfs.Open(normalize(name))
}

// Save writes content to the named object, creating parent directories
// as needed and truncating any existing object.
func (m *MemoryBackend) Save(name string, content io.Reader) (string, error) {
	return save(m.bfs, name, content)
}

// Delete removes the named object. Absence is not an error.
func (m *MemoryBackend) Delete(name string) error {
	return remove(m.bfs, name)
}

// List returns all object names under prefix, recursively, in lexical order.
func (m *MemoryBackend) List(prefix string) ([]string, error) {
	return list(m.bfs, prefix)
}

// Kind returns storage.KindMemory.
func (m *MemoryBackend) Kind() storage.Kind {
	return storage.KindMemory
}

// Shared billy-backed helpers

func exists(bfs billy.Filesystem, name string) (bool, error) {
	_, err := bfs.Stat(normalize(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func save(bfs billy.Filesystem, name string, content io.Reader) (string, error) {
	name = normalize(name)
	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := bfs.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := bfs.Create(name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func remove(bfs billy.Filesystem, name string) error {
	err := bfs.Remove(normalize(name))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func list(bfs billy.Filesystem, prefix string) ([]string, error) {
	prefix = normalize(prefix)
	if prefix != "." {
		info, err := bfs.Stat(prefix)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}
		if !info.IsDir() {
			return []string{prefix}, nil
		}
	}

	var names []string
	var walk func(dir string) error
	walk = func(dir string) error {
		infos, err := bfs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range infos {
			child := normalize(path.Join(dir, entry.Name()))
			if entry.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			names = append(names, child)
		}
		return nil
	}
	if err := walk(prefix); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time interface checks.
var (
	_ storage.Backend     = (*LocalBackend)(nil)
	_ storage.LocalPather = (*LocalBackend)(nil)
	_ storage.Lister      = (*LocalBackend)(nil)
	_ storage.Backend     = (*MemoryBackend)(nil)
	_ storage.Lister      = (*MemoryBackend)(nil)
)
