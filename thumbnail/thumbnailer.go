package thumbnail

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
)

// defaultQuality is the encoding quality used when the configuration
// leaves it unset.
const defaultQuality = 85

// Config carries the settings shared by every thumbnailer built from
// it.
type Config struct {
	// SourceBackend holds the source images. Required.
	SourceBackend storage.Backend

	// ThumbnailBackend holds the generated artifacts. Nil reuses the
	// source backend.
	ThumbnailBackend storage.Backend

	// Engine performs decode, transform, and encode. Required.
	Engine Engine

	// BaseDir, SubDir, and Prefix shape artifact names; see
	// NameEncoder.
	BaseDir string
	SubDir  string
	Prefix  string

	// Quality is the default encoding quality (1-100). Zero selects
	// 85.
	Quality int

	// Extension forces the artifact extension. Empty derives it from
	// the source name.
	Extension string

	// Logger receives absorbed best-effort failures. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// validate checks the configuration and applies defaults.
func (c *Config) validate() error {
	if c.SourceBackend == nil {
		return errors.New(errors.CodeInvalidConfig, "source backend is required")
	}
	if c.Engine == nil {
		return errors.New(errors.CodeInvalidConfig, "engine is required")
	}
	if c.ThumbnailBackend == nil {
		c.ThumbnailBackend = c.SourceBackend
	}
	if c.Quality == 0 {
		c.Quality = defaultQuality
	}
	if c.Quality < 1 || c.Quality > 100 {
		return errors.Newf(errors.CodeInvalidConfig,
			"quality %d is outside 1-100", c.Quality)
	}
	return nil
}

// namer builds the name encoder implied by the configuration.
func (c Config) namer() NameEncoder {
	return NameEncoder{
		BaseDir:   c.BaseDir,
		SubDir:    c.SubDir,
		Prefix:    c.Prefix,
		Quality:   c.Quality,
		Extension: c.Extension,
	}
}

// Thumbnailer produces cached thumbnails for one source image. It is
// the facade over naming, freshness checking, generation, and
// replication.
//
// A Thumbnailer memoizes the decoded source image across calls but
// performs no synchronization between processes; concurrent generation
// of the same artifact is benign because names are deterministic and
// saves are last-writer-wins.
type Thumbnailer struct {
	cfg        Config
	sourceName string
	namer      NameEncoder
	pipeline   Pipeline
	replicator Replicator

	srcImg image.Image
}

// New returns a Thumbnailer for the named source image.
func New(sourceName string, cfg Config) (*Thumbnailer, error) {
	if sourceName == "" {
		return nil, errors.New(errors.CodeInvalidSource, "source name is empty")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Thumbnailer{
		cfg:        cfg,
		sourceName: sourceName,
		namer:      cfg.namer(),
		pipeline:   Pipeline{Engine: cfg.Engine, Quality: cfg.Quality},
		replicator: Replicator{Logger: cfg.Logger},
	}, nil
}

// SourceName returns the source image name this thumbnailer serves.
func (t *Thumbnailer) SourceName() string {
	return t.sourceName
}

// Name returns the canonical artifact name for the option set without
// touching storage.
func (t *Thumbnailer) Name(opts Options) (string, error) {
	return t.namer.Encode(t.sourceName, opts)
}

// Get returns the artifact for the option set, generating and storing
// it when no usable cached copy exists. A usable cached copy is
// returned as a lazy handle without any generation work.
func (t *Thumbnailer) Get(opts Options) (*Artifact, error) {
	name, err := t.namer.Encode(t.sourceName, opts)
	if err != nil {
		return nil, err
	}

	verdict, err := CheckFreshness(t.sourceName, name,
		t.cfg.SourceBackend, t.cfg.ThumbnailBackend)
	if err != nil {
		return nil, err
	}
	if verdict.Usable() {
		return NewStoredArtifact(name, t.cfg.ThumbnailBackend), nil
	}

	data, bounds, err := t.generate(opts)
	if err != nil {
		return nil, err
	}

	if verdict == VerdictStale {
		// Clear the stale object first so backends that version or
		// refuse overwrites start clean. Failure is absorbed; the save
		// below overwrites regardless.
		if err := t.cfg.ThumbnailBackend.Delete(name); err != nil {
			wrapped := errors.Wrapf(err, errors.CodeStaleDeleteFailed,
				"deleting stale artifact %q", name)
			t.logger().Warn("stale artifact delete failed",
				"name", name,
				"code", string(errors.GetCode(wrapped)),
				"error", wrapped)
		}
	}

	// The placeholder must exist before the artifact so its mtime does
	// not postdate the artifact's and flag the fresh copy as stale.
	t.replicator.EnsureSourcePlaceholder(t.sourceName, t.cfg.ThumbnailBackend)

	savedName, err := t.cfg.ThumbnailBackend.Save(name, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeStorage,
			"saving artifact %q", name)
	}

	t.replicator.Reconcile(savedName, data, t.cfg.ThumbnailBackend, t.cfg.SourceBackend)

	return newGeneratedArtifact(savedName, t.cfg.ThumbnailBackend, data, bounds), nil
}

// GetUncommitted generates the artifact in memory without consulting or
// writing the cache. The returned handle carries the encoded bytes and
// the canonical name the artifact would be stored under.
func (t *Thumbnailer) GetUncommitted(opts Options) (*Artifact, error) {
	name, err := t.namer.Encode(t.sourceName, opts)
	if err != nil {
		return nil, err
	}
	data, bounds, err := t.generate(opts)
	if err != nil {
		return nil, err
	}
	return newGeneratedArtifact(name, t.cfg.ThumbnailBackend, data, bounds), nil
}

// generate decodes the source (once) and runs the pipeline.
func (t *Thumbnailer) generate(opts Options) ([]byte, image.Rectangle, error) {
	src, err := t.sourceImage()
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return t.pipeline.Generate(src, opts)
}

// sourceImage opens and decodes the source image, memoizing the result
// so repeated Get calls on one thumbnailer decode at most once.
func (t *Thumbnailer) sourceImage() (image.Image, error) {
	if t.srcImg != nil {
		return t.srcImg, nil
	}

	rc, err := t.cfg.SourceBackend.Open(t.sourceName)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.CodeNotFound,
				"source %q does not exist", t.sourceName)
		}
		return nil, errors.Wrapf(err, errors.CodeStorage,
			"opening source %q", t.sourceName)
	}
	defer rc.Close()

	img, err := t.cfg.Engine.Decode(rc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidSource,
			"decoding source %q", t.sourceName)
	}
	t.srcImg = img
	return t.srcImg, nil
}

func (t *Thumbnailer) logger() *slog.Logger {
	if t.cfg.Logger != nil {
		return t.cfg.Logger
	}
	return slog.Default()
}
