package thumbnail

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/thumbcache/storage"
	"github.com/jmgilman/thumbcache/storage/local"
)

func TestReplicator_Reconcile(t *testing.T) {
	t.Run("mirrors remote artifact to local fallback", func(t *testing.T) {
		thumbs := local.NewMemory()
		fallback, err := local.New(t.TempDir())
		require.NoError(t, err)

		Replicator{}.Reconcile("photos/100x75_q80.jpg", []byte("thumb"), thumbs, fallback)

		rc, err := fallback.Open("photos/100x75_q80.jpg")
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "thumb", string(content))
	})

	t.Run("no-op when backends are the same", func(t *testing.T) {
		backend := local.NewMemory()

		Replicator{}.Reconcile("photos/100x75_q80.jpg", []byte("thumb"), backend, backend)

		exists, err := backend.Exists("photos/100x75_q80.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("no-op when artifact backend is local", func(t *testing.T) {
		thumbs, err := local.New(t.TempDir())
		require.NoError(t, err)
		fallback, err := local.New(t.TempDir())
		require.NoError(t, err)

		Replicator{}.Reconcile("photos/100x75_q80.jpg", []byte("thumb"), thumbs, fallback)

		exists, err := fallback.Exists("photos/100x75_q80.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("no-op when fallback is remote", func(t *testing.T) {
		thumbs := local.NewMemory()
		fallback := local.NewMemory()

		Replicator{}.Reconcile("photos/100x75_q80.jpg", []byte("thumb"), thumbs, fallback)

		exists, err := fallback.Exists("photos/100x75_q80.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestReplicator_EnsureSourcePlaceholder(t *testing.T) {
	t.Run("creates an empty marker", func(t *testing.T) {
		thumbs, err := local.New(t.TempDir())
		require.NoError(t, err)

		Replicator{}.EnsureSourcePlaceholder("photos/cat.jpg", thumbs)

		path, err := storage.LocalPath(thumbs, "photos/cat.jpg")
		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(0), info.Size())
	})

	t.Run("leaves an existing file untouched", func(t *testing.T) {
		thumbs, err := local.New(t.TempDir())
		require.NoError(t, err)
		_, err = thumbs.Save("photos/cat.jpg", strings.NewReader("real content"))
		require.NoError(t, err)

		Replicator{}.EnsureSourcePlaceholder("photos/cat.jpg", thumbs)

		rc, err := thumbs.Open("photos/cat.jpg")
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "real content", string(content))
	})

	t.Run("no-op on remote backends", func(t *testing.T) {
		thumbs := local.NewMemory()

		Replicator{}.EnsureSourcePlaceholder("photos/cat.jpg", thumbs)

		exists, err := thumbs.Exists("photos/cat.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
