package miniofs

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing bucket",
			cfg:     Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: true,
		},
		{
			name:    "missing endpoint",
			cfg:     Config{Bucket: "media", AccessKey: "a", SecretKey: "s"},
			wantErr: true,
		},
		{
			name:    "missing access key",
			cfg:     Config{Bucket: "media", Endpoint: "localhost:9000", SecretKey: "s"},
			wantErr: true,
		},
		{
			name:    "missing secret key",
			cfg:     Config{Bucket: "media", Endpoint: "localhost:9000", AccessKey: "a"},
			wantErr: true,
		},
		{
			name:    "complete",
			cfg:     Config{Bucket: "media", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "."},
		{"/", "."},
		{"photos/cat.jpg", "photos/cat.jpg"},
		{"/photos/cat.jpg/", "photos/cat.jpg"},
		{"photos//./cat.jpg", "photos/cat.jpg"},
		{"photos\\cat.jpg", "photos/cat.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalize(tt.in), "normalize(%q)", tt.in)
	}
}

func TestKey_Prefixing(t *testing.T) {
	m := &MinioBackend{bucket: "media", prefix: "thumbs"}
	assert.Equal(t, "thumbs/photos/cat.jpg", m.key("photos/cat.jpg"))
	assert.Equal(t, "thumbs", m.key(""))

	bare := &MinioBackend{bucket: "media"}
	assert.Equal(t, "photos/cat.jpg", bare.key("/photos/cat.jpg"))
	assert.Equal(t, "", bare.key(""))
}

func TestTranslate_NilPassthrough(t *testing.T) {
	assert.NoError(t, translate(nil))
}

func TestTranslate_GenericWrapped(t *testing.T) {
	err := translate(errors.New("connection reset"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestPathError(t *testing.T) {
	assert.NoError(t, pathError("open", "x", nil))

	err := pathError("open", "photos/cat.jpg", fs.ErrNotExist)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pe *fs.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "open", pe.Op)
	assert.Equal(t, "photos/cat.jpg", pe.Path)
}
