package miniofs

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jmgilman/thumbcache/storage"
	"github.com/jmgilman/thumbcache/storage/storagetest"
)

// setupTestMinIO starts a MinIO container and returns a client bound to
// a freshly created bucket.
func setupTestMinIO(t *testing.T) *minio.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		_ = minioC.Terminate(context.Background())
	})

	endpoint, err := minioC.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create minio client")

	return client
}

func makeBucket(t *testing.T, client *minio.Client, name string) {
	t.Helper()
	err := client.MakeBucket(context.Background(), name, minio.MakeBucketOptions{})
	require.NoError(t, err, "failed to create bucket %s", name)
}

func TestMinioBackend_Conformance(t *testing.T) {
	client := setupTestMinIO(t)

	counter := 0
	storagetest.TestBackendWithConfig(t, func() storage.Backend {
		counter++
		bucket := fmt.Sprintf("conformance-%d", counter)
		makeBucket(t, client, bucket)
		b, err := New(Config{Bucket: bucket, Client: client})
		require.NoError(t, err)
		return b
	}, storagetest.RemoteConfig())
}

func TestMinioBackend_PrefixIsolation(t *testing.T) {
	client := setupTestMinIO(t)
	makeBucket(t, client, "prefixed")

	a, err := New(Config{Bucket: "prefixed", Prefix: "tenant-a", Client: client})
	require.NoError(t, err)
	b, err := New(Config{Bucket: "prefixed", Prefix: "tenant-b", Client: client})
	require.NoError(t, err)

	_, err = a.Save("photos/cat.jpg", strings.NewReader("a-bytes"))
	require.NoError(t, err)

	ok, err := b.Exists("photos/cat.jpg")
	require.NoError(t, err)
	require.False(t, ok, "object leaked across prefixes")

	names, err := a.List("photos")
	require.NoError(t, err)
	require.Equal(t, []string{"photos/cat.jpg"}, names)
}
