// Package storagetest provides a conformance test suite for validating
// backend implementations against the storage.Backend contract.
//
// Backend packages import the suite and run it against fresh instances:
//
//	func TestLocalBackend(t *testing.T) {
//	    storagetest.TestBackendWithConfig(t, func() storage.Backend {
//	        b, _ := local.New(t.TempDir())
//	        return b
//	    }, storagetest.LocalConfig())
//	}
//
// The suite validates the interface contract, not backend-specific
// behavior: capability expectations (local path resolution, listing)
// are declared through the Config so the same tests cover disk-backed,
// in-memory, and object-store backends.
package storagetest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/jmgilman/thumbcache/storage"
)

// Config declares the behavior characteristics of a backend under test.
type Config struct {
	// HasLocalPath indicates the backend implements storage.LocalPather
	// and resolved paths refer to real files on the local filesystem.
	HasLocalPath bool

	// HasList indicates the backend implements storage.Lister.
	HasList bool

	// SkipTests lists specific subtest names to skip (e.g. "Overwrite").
	SkipTests []string
}

// LocalConfig returns the configuration for disk-backed backends.
func LocalConfig() Config {
	return Config{HasLocalPath: true, HasList: true}
}

// MemoryConfig returns the configuration for in-memory backends.
func MemoryConfig() Config {
	return Config{HasLocalPath: false, HasList: true}
}

// RemoteConfig returns the configuration for object-store backends.
func RemoteConfig() Config {
	return Config{HasLocalPath: false, HasList: true}
}

// TestBackend runs the conformance suite with LocalConfig.
// The newBackend function must return a fresh, empty backend per call.
func TestBackend(t *testing.T, newBackend func() storage.Backend) {
	TestBackendWithConfig(t, newBackend, LocalConfig())
}

// TestBackendWithConfig runs the conformance suite against a backend
// with the declared behavior configuration.
func TestBackendWithConfig(t *testing.T, newBackend func() storage.Backend, config Config) {
	shouldSkip := func(name string) bool {
		for _, skip := range config.SkipTests {
			if skip == name {
				return true
			}
		}
		return false
	}

	run := func(name string, fn func(*testing.T, storage.Backend)) {
		t.Run(name, func(t *testing.T) {
			if shouldSkip(name) {
				t.Skip("Skipped by backend configuration")
				return
			}
			fn(t, newBackend())
		})
	}

	run("ExistsAbsent", testExistsAbsent)
	run("SaveOpenRoundTrip", testSaveOpenRoundTrip)
	run("SaveCreatesParents", testSaveCreatesParents)
	run("SaveEchoesName", testSaveEchoesName)
	run("Overwrite", testOverwrite)
	run("OpenAbsent", testOpenAbsent)
	run("DeleteIdempotent", testDeleteIdempotent)
	run("DeleteRemoves", testDeleteRemoves)

	t.Run("LocalPath", func(t *testing.T) {
		if shouldSkip("LocalPath") {
			t.Skip("Skipped by backend configuration")
			return
		}
		testLocalPath(t, newBackend(), config)
	})

	t.Run("List", func(t *testing.T) {
		if shouldSkip("List") {
			t.Skip("Skipped by backend configuration")
			return
		}
		testList(t, newBackend(), config)
	})
}

func testExistsAbsent(t *testing.T, b storage.Backend) {
	ok, err := b.Exists("no/such/object.jpg")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true for absent object")
	}
}

func testSaveOpenRoundTrip(t *testing.T, b storage.Backend) {
	content := []byte("round trip payload")
	stored, err := b.Save("photos/cat.jpg", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ok, err := b.Exists(stored)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Fatal("Exists() = false after Save()")
	}

	r, err := b.Open(stored)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Open() content = %q, want %q", got, content)
	}
}

func testSaveCreatesParents(t *testing.T, b storage.Backend) {
	_, err := b.Save("deeply/nested/dir/file.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() into missing parents error = %v", err)
	}
}

func testSaveEchoesName(t *testing.T, b storage.Backend) {
	stored, err := b.Save("photos/dog.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if stored == "" {
		t.Error("Save() returned empty stored name")
	}
	ok, err := b.Exists(stored)
	if err != nil || !ok {
		t.Errorf("Exists(%q) = %v, %v after Save()", stored, ok, err)
	}
}

func testOverwrite(t *testing.T, b storage.Backend) {
	name := "photos/cat.jpg"
	if _, err := b.Save(name, strings.NewReader("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	stored, err := b.Save(name, strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	r, err := b.Open(stored)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = r.Close() }()
	got, _ := io.ReadAll(r)
	if string(got) != "second" {
		t.Errorf("overwritten content = %q, want %q", got, "second")
	}
}

func testOpenAbsent(t *testing.T, b storage.Backend) {
	_, err := b.Open("no/such/object.jpg")
	if err == nil {
		t.Fatal("Open() of absent object succeeded")
	}
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Open() error = %v, want storage.ErrNotExist", err)
	}
}

func testDeleteIdempotent(t *testing.T, b storage.Backend) {
	if err := b.Delete("no/such/object.jpg"); err != nil {
		t.Errorf("Delete() of absent object error = %v, want nil", err)
	}
}

func testDeleteRemoves(t *testing.T, b storage.Backend) {
	name := "photos/cat.jpg"
	if _, err := b.Save(name, strings.NewReader("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := b.Delete(name); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	ok, err := b.Exists(name)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true after Delete()")
	}
}

func testLocalPath(t *testing.T, b storage.Backend, config Config) {
	if !config.HasLocalPath {
		if _, err := storage.LocalPath(b, "photos/cat.jpg"); !errors.Is(err, storage.ErrUnsupported) {
			t.Errorf("LocalPath() error = %v, want storage.ErrUnsupported", err)
		}
		return
	}

	name := "photos/cat.jpg"
	if _, err := b.Save(name, strings.NewReader("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, err := storage.LocalPath(b, name)
	if err != nil {
		t.Fatalf("LocalPath() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%q) error = %v", path, err)
	}
	if info.IsDir() {
		t.Errorf("LocalPath() resolved to a directory: %q", path)
	}
}

func testList(t *testing.T, b storage.Backend, config Config) {
	if !config.HasList {
		if _, err := storage.List(b, ""); !errors.Is(err, storage.ErrUnsupported) {
			t.Errorf("List() error = %v, want storage.ErrUnsupported", err)
		}
		return
	}

	for _, name := range []string{"photos/a.jpg", "photos/thumbs/a_100x75.jpg", "other/b.jpg"} {
		if _, err := b.Save(name, strings.NewReader("x")); err != nil {
			t.Fatalf("Save(%q) error = %v", name, err)
		}
	}

	names, err := storage.List(b, "photos")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List(photos) = %v, want 2 names", names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "photos/") {
			t.Errorf("List(photos) returned name outside prefix: %q", name)
		}
	}

	names, err = storage.List(b, "no/such/prefix")
	if err != nil {
		t.Fatalf("List() of absent prefix error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() of absent prefix = %v, want empty", names)
	}
}
