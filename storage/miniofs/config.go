// Package miniofs provides a MinIO/S3-compatible implementation of the
// storage.Backend interface.
//
// Objects live in a single bucket under an optional key prefix. The
// backend has no local filesystem projection and therefore does not
// implement storage.LocalPather; the thumbnail cache falls back to
// remote existence checks (or a mirrored placeholder on the other
// backend) when freshness-checking against it.
package miniofs

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Config holds MinIO backend configuration.
type Config struct {
	// Endpoint is the MinIO server URL (e.g., "localhost:9000")
	Endpoint string

	// Bucket is the S3 bucket name
	Bucket string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Prefix is an optional prefix for all object keys (for namespacing)
	Prefix string

	// Client is an optional pre-configured MinIO client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided,
// and Bucket is required in all cases.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}

	return nil
}
