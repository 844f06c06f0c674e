package miniofs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/thumbcache/storage"
)

// MinioBackend implements storage.Backend for MinIO/S3-compatible storage.
//
//nolint:revive // MinioBackend name is intentional to match the naming
// pattern across backend implementations (LocalBackend, MemoryBackend).
type MinioBackend struct {
	client *minio.Client
	bucket string
	prefix string // optional prefix for all keys
}

// New creates a MinIO-backed storage backend.
// Returns an error if the configuration is invalid or the client
// cannot be constructed.
func New(cfg Config) (*MinioBackend, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	return &MinioBackend{
		client: client,
		bucket: cfg.Bucket,
		prefix: normalizePrefix(cfg.Prefix),
	}, nil
}

// normalize cleans a name and ensures forward slashes.
// Returns "." for empty names.
func normalize(name string) string {
	if name == "" {
		return "."
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.ToSlash(filepath.Clean(name))
	name = strings.Trim(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// normalizePrefix normalizes the key prefix, returning "" for "." or empty.
func normalizePrefix(prefix string) string {
	prefix = normalize(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}

// key joins the backend prefix with the given name to form a full S3 key.
func (m *MinioBackend) key(name string) string {
	name = normalize(name)
	if name == "." {
		return m.prefix
	}
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

// translate converts MinIO errors to stdlib fs errors.
func translate(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)
	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}

	return fmt.Errorf("minio: %w", err)
}

// pathError wraps an error in a fs.PathError for the given operation
// and name. Returns nil if the error is nil.
func pathError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// Exists reports whether the named object exists.
func (m *MinioBackend) Exists(name string) (bool, error) {
	ctx := context.Background()
	_, err := m.client.StatObject(ctx, m.bucket, m.key(name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if errors.Is(translate(err), fs.ErrNotExist) {
		return false, nil
	}
	return false, pathError("exists", name, translate(err))
}

// Open opens the named object for reading. The object is streamed; the
// returned reader must be closed when no longer needed.
func (m *MinioBackend) Open(name string) (io.ReadCloser, error) {
	ctx := context.Background()
	key := m.key(name)

	// StatObject first so absence surfaces at Open time rather than on
	// the first Read of the lazily-fetched object.
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, pathError("open", name, translate(err))
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, pathError("open", name, translate(err))
	}
	return obj, nil
}

// Save streams content into the named object, overwriting any existing
// object. S3 has no real directories, so no parents need creating. The
// stored name is echoed back in normalized form.
func (m *MinioBackend) Save(name string, content io.Reader) (string, error) {
	ctx := context.Background()
	stored := normalize(name)

	_, err := m.client.PutObject(ctx, m.bucket, m.key(name), content, -1, minio.PutObjectOptions{})
	if err != nil {
		return "", pathError("save", name, translate(err))
	}
	return stored, nil
}

// Delete removes the named object. S3 deletes are idempotent; removing
// an absent object succeeds.
func (m *MinioBackend) Delete(name string) error {
	ctx := context.Background()
	err := m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		translated := translate(err)
		if errors.Is(translated, fs.ErrNotExist) {
			return nil
		}
		return pathError("delete", name, translated)
	}
	return nil
}

// List returns the names of all objects under prefix, recursively, in
// lexical order. Names are relative to the backend root (the configured
// key prefix is stripped).
func (m *MinioBackend) List(prefix string) ([]string, error) {
	ctx := context.Background()

	keyPrefix := m.key(prefix)
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	var names []string
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, pathError("list", prefix, translate(object.Err))
		}
		// Directory markers carry a trailing slash; skip them.
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		name := object.Key
		if m.prefix != "" {
			name = strings.TrimPrefix(name, m.prefix+"/")
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// Kind returns storage.KindRemote.
func (m *MinioBackend) Kind() storage.Kind {
	return storage.KindRemote
}

// Compile-time interface checks.
var (
	_ storage.Backend = (*MinioBackend)(nil)
	_ storage.Lister  = (*MinioBackend)(nil)
)
