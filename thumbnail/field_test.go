package thumbnail

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
	"github.com/jmgilman/thumbcache/storage/local"
)

// noListBackend hides the Lister capability of the wrapped backend.
type noListBackend struct {
	storage.Backend
}

func newFieldAdapter(t *testing.T, cfg Config, resize *Options) *FieldAdapter {
	t.Helper()
	adapter, err := NewFieldAdapter(cfg, resize)
	require.NoError(t, err)
	return adapter
}

func TestNewFieldAdapter_Validation(t *testing.T) {
	backend := local.NewMemory()

	_, err := NewFieldAdapter(Config{Engine: &stubEngine{}}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	_, err = NewFieldAdapter(Config{
		SourceBackend: backend,
		Engine:        &stubEngine{},
	}, &Options{Size: Size{0, 100}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidOptions, errors.GetCode(err))
}

func TestFieldAdapter_Save(t *testing.T) {
	backend := local.NewMemory()
	adapter := newFieldAdapter(t, Config{
		SourceBackend: backend,
		Engine:        &stubEngine{},
	}, nil)

	saved, err := adapter.Save("photos/cat.jpg", strings.NewReader("raw-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "photos/cat.jpg", saved)

	rc, err := backend.Open("photos/cat.jpg")
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "raw-bytes", string(content), "content stored verbatim")

	_, err = adapter.Save("", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSource, errors.GetCode(err))
}

func TestFieldAdapter_Save_ResizeSource(t *testing.T) {
	backend := local.NewMemory()
	engine := &stubEngine{}
	adapter := newFieldAdapter(t, Config{
		SourceBackend: backend,
		Engine:        engine,
		Quality:       80,
	}, &Options{Size: Size{800, 600}})

	_, err := adapter.Save("photos/cat.jpg", strings.NewReader("huge-original"))
	require.NoError(t, err)
	assert.Equal(t, 1, engine.processCalls)

	rc, err := backend.Open("photos/cat.jpg")
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "encoded:800x600:q80", string(content),
		"stored bytes are the downscaled re-encode")
}

func TestFieldAdapter_Save_SeedsPlaceholder(t *testing.T) {
	source := local.NewMemory()
	thumbs, err := local.New(t.TempDir())
	require.NoError(t, err)

	adapter := newFieldAdapter(t, Config{
		SourceBackend:    source,
		ThumbnailBackend: thumbs,
		Engine:           &stubEngine{},
	}, nil)

	_, err = adapter.Save("photos/cat.jpg", strings.NewReader("raw"))
	require.NoError(t, err)

	exists, err := thumbs.Exists("photos/cat.jpg")
	require.NoError(t, err)
	assert.True(t, exists, "placeholder seeded on the thumbnail backend")
}

func TestFieldAdapter_Delete(t *testing.T) {
	backend := local.NewMemory()
	engine := &stubEngine{}
	cfg := Config{
		SourceBackend: backend,
		Engine:        engine,
		Quality:       80,
	}
	adapter := newFieldAdapter(t, cfg, nil)

	saveAt(t, backend, "photos/cat.jpg", time.Now())
	saveAt(t, backend, "photos/keep.txt", time.Now())

	thumbnailer, err := adapter.Thumbnailer("photos/cat.jpg")
	require.NoError(t, err)
	_, err = thumbnailer.Get(Options{Size: Size{100, 75}})
	require.NoError(t, err)
	_, err = thumbnailer.Get(Options{
		Size:  Size{50, 50},
		Extra: map[string]interface{}{"crop": true},
	})
	require.NoError(t, err)

	require.NoError(t, adapter.Delete("photos/cat.jpg"))

	for _, name := range []string{
		"photos/cat.jpg",
		"photos/100x75_q80.jpg",
		"photos/50x50_q80_crop.jpg",
	} {
		exists, err := backend.Exists(name)
		require.NoError(t, err)
		assert.False(t, exists, "%s should be gone", name)
	}

	exists, err := backend.Exists("photos/keep.txt")
	require.NoError(t, err)
	assert.True(t, exists, "unrelated files survive the sweep")
}

func TestFieldAdapter_Delete_InterpolatedLayout(t *testing.T) {
	backend := local.NewMemory()
	cfg := Config{
		SourceBackend: backend,
		Engine:        &stubEngine{},
		SubDir:        "{opts}",
		Quality:       80,
	}
	adapter := newFieldAdapter(t, cfg, nil)

	saveAt(t, backend, "photos/cat.jpg", time.Now())
	saveAt(t, backend, "photos/dog.jpg", time.Now())

	catThumb, err := adapter.Thumbnailer("photos/cat.jpg")
	require.NoError(t, err)
	_, err = catThumb.Get(Options{Size: Size{100, 75}})
	require.NoError(t, err)

	dogThumb, err := adapter.Thumbnailer("photos/dog.jpg")
	require.NoError(t, err)
	_, err = dogThumb.Get(Options{Size: Size{100, 75}})
	require.NoError(t, err)

	require.NoError(t, adapter.Delete("photos/cat.jpg"))

	exists, err := backend.Exists("photos/100x75_q80/cat.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = backend.Exists("photos/100x75_q80/dog.jpg")
	require.NoError(t, err)
	assert.True(t, exists, "other sources' thumbnails survive")
}

func TestFieldAdapter_Delete_InterpolatedBaseDirScopesToSource(t *testing.T) {
	backend := local.NewMemory()
	cfg := Config{
		SourceBackend: backend,
		Engine:        &stubEngine{},
		BaseDir:       "thumbs/{opts}",
		Quality:       80,
	}
	adapter := newFieldAdapter(t, cfg, nil)

	saveAt(t, backend, "photos/cat.jpg", time.Now())
	saveAt(t, backend, "other/cat.jpg", time.Now())

	for _, source := range []string{"photos/cat.jpg", "other/cat.jpg"} {
		thumbnailer, err := adapter.Thumbnailer(source)
		require.NoError(t, err)
		_, err = thumbnailer.Get(Options{Size: Size{100, 75}})
		require.NoError(t, err)
	}

	require.NoError(t, adapter.Delete("photos/cat.jpg"))

	exists, err := backend.Exists("thumbs/100x75_q80/photos/cat.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = backend.Exists("thumbs/100x75_q80/other/cat.jpg")
	require.NoError(t, err)
	assert.True(t, exists,
		"a same-named source in another directory must survive")
}

func TestFieldAdapter_Delete_ExactFilenameMatch(t *testing.T) {
	backend := local.NewMemory()
	cfg := Config{
		SourceBackend: backend,
		Engine:        &stubEngine{},
		SubDir:        "{opts}",
		Quality:       80,
	}
	adapter := newFieldAdapter(t, cfg, nil)

	sources := []string{"photos/cat.jpg", "photos/cat.jpg2", "photos/cat.jpg.bak"}
	for _, source := range sources {
		saveAt(t, backend, source, time.Now())
		thumbnailer, err := adapter.Thumbnailer(source)
		require.NoError(t, err)
		_, err = thumbnailer.Get(Options{Size: Size{100, 75}})
		require.NoError(t, err)
	}

	require.NoError(t, adapter.Delete("photos/cat.jpg"))

	exists, err := backend.Exists("photos/100x75_q80/cat.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	for _, survivor := range []string{
		"photos/100x75_q80/cat.jpg2",
		"photos/100x75_q80/cat.jpg.bak",
	} {
		exists, err := backend.Exists(survivor)
		require.NoError(t, err)
		assert.True(t, exists, "%s belongs to another source", survivor)
	}
}

func TestFieldAdapter_Delete_NoListSupport(t *testing.T) {
	backend := local.NewMemory()
	adapter := newFieldAdapter(t, Config{
		SourceBackend: noListBackend{backend},
		Engine:        &stubEngine{},
	}, nil)

	saveAt(t, backend, "photos/cat.jpg", time.Now())

	// The sweep is skipped silently when the backend cannot list.
	require.NoError(t, adapter.Delete("photos/cat.jpg"))

	exists, err := backend.Exists("photos/cat.jpg")
	require.NoError(t, err)
	assert.False(t, exists, "the source itself is still deleted")
}

func TestFieldAdapter_Delete_Idempotent(t *testing.T) {
	adapter := newFieldAdapter(t, Config{
		SourceBackend: local.NewMemory(),
		Engine:        &stubEngine{},
	}, nil)

	require.NoError(t, adapter.Delete("photos/never-existed.jpg"))
}
