package thumbnail

import (
	"bytes"
	"io"
	"path"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/storage"
)

// cleanupConcurrency bounds parallel thumbnail deletes during cleanup.
const cleanupConcurrency = 8

// optsSegmentPattern matches one rendered option string: "WxH_qQ"
// followed by optional extra tokens.
const optsSegmentPattern = `\d+x\d+_q\d+(?:_[^/]+)*`

// FieldAdapter manages the lifecycle of a source image alongside its
// thumbnails. Save stores the source (optionally downscaling it first)
// and seeds the freshness placeholder; Delete removes the source and
// sweeps its cached thumbnails.
type FieldAdapter struct {
	// Config is the shared thumbnailer configuration.
	Config Config

	// ResizeSource, when set, downscales sources through the engine
	// before they are stored. The stored bytes become the new source
	// of truth for all thumbnails.
	ResizeSource *Options
}

// NewFieldAdapter validates the configuration and returns an adapter.
func NewFieldAdapter(cfg Config, resizeSource *Options) (*FieldAdapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if resizeSource != nil && !resizeSource.Size.valid() {
		return nil, errors.Newf(errors.CodeInvalidOptions,
			"resize-source size %s is not a pair of positive integers",
			resizeSource.Size)
	}
	return &FieldAdapter{Config: cfg, ResizeSource: resizeSource}, nil
}

// Thumbnailer returns a Thumbnailer for a source managed by this
// adapter.
func (f *FieldAdapter) Thumbnailer(sourceName string) (*Thumbnailer, error) {
	return New(sourceName, f.Config)
}

// Save stores a new source image and returns the name it was stored
// under. When ResizeSource is configured the content is decoded,
// downscaled, and re-encoded before storage. A freshness placeholder is
// seeded on the thumbnail backend afterwards; placeholder failure does
// not fail the save.
func (f *FieldAdapter) Save(sourceName string, content io.Reader) (string, error) {
	if sourceName == "" {
		return "", errors.New(errors.CodeInvalidSource, "source name is empty")
	}

	if f.ResizeSource != nil {
		resized, err := f.resize(sourceName, content)
		if err != nil {
			return "", err
		}
		content = bytes.NewReader(resized)
	}

	saved, err := f.Config.SourceBackend.Save(sourceName, content)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeStorage,
			"saving source %q", sourceName)
	}

	replicator := Replicator{Logger: f.Config.Logger}
	replicator.EnsureSourcePlaceholder(saved, f.Config.ThumbnailBackend)

	return saved, nil
}

// resize runs the pre-store downscale configured by ResizeSource.
func (f *FieldAdapter) resize(sourceName string, content io.Reader) ([]byte, error) {
	img, err := f.Config.Engine.Decode(content)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidSource,
			"decoding source %q", sourceName)
	}
	pipeline := Pipeline{Engine: f.Config.Engine, Quality: f.Config.Quality}
	data, _, err := pipeline.Generate(img, *f.ResizeSource)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes a source image and sweeps its cached thumbnails from
// the thumbnail backend. Both deletes are idempotent; a backend without
// listing support skips the sweep silently.
func (f *FieldAdapter) Delete(sourceName string) error {
	if sourceName == "" {
		return errors.New(errors.CodeInvalidSource, "source name is empty")
	}

	if err := f.Config.SourceBackend.Delete(sourceName); err != nil {
		return errors.Wrapf(err, errors.CodeStorage,
			"deleting source %q", sourceName)
	}

	return f.deleteThumbnails(sourceName)
}

// deleteThumbnails lists the artifact directory for the source and
// removes every name that the naming scheme could have produced for it.
func (f *FieldAdapter) deleteThumbnails(sourceName string) error {
	namer := f.Config.namer()
	dir := namer.Directory(sourceName)
	if dir == "" {
		dir = "."
	}

	names, err := storage.List(f.Config.ThumbnailBackend, dir)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupported) {
			return nil
		}
		return errors.Wrapf(err, errors.CodeStorage,
			"listing thumbnails under %q", dir)
	}

	matches := f.matchThumbnails(namer, sourceName, names)
	if len(matches) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(cleanupConcurrency)
	for _, name := range matches {
		g.Go(func() error {
			if err := f.Config.ThumbnailBackend.Delete(name); err != nil {
				return errors.Wrapf(err, errors.CodeStorage,
					"deleting thumbnail %q", name)
			}
			return nil
		})
	}
	return g.Wait()
}

// matchThumbnails filters listed names down to artifacts of the given
// source by matching the full path against the shape the encoder
// produces for exactly this source. Names from other sources, even ones
// sharing the filename under a different directory or differing only in
// a trailing suffix, never match.
func (f *FieldAdapter) matchThumbnails(namer NameEncoder, sourceName string, names []string) []string {
	pattern := artifactPattern(namer, sourceName)

	var matches []string
	for _, name := range names {
		if pattern.MatchString(name) {
			matches = append(matches, name)
		}
	}
	return matches
}

// artifactPattern reconstructs the encoder's output shape for one
// source as a regular expression: every literal component (templates,
// source directory, prefix, filename, extension) is quoted and only the
// option strings float.
func artifactPattern(e NameEncoder, sourceName string) *regexp.Regexp {
	dir, sourceFilename := path.Split(sourceName)
	dir = strings.TrimSuffix(dir, "/")
	ext, sourceExt := e.extensionFor(sourceFilename)

	interpolated := strings.Contains(e.BaseDir, OptsToken) ||
		strings.Contains(e.SubDir, OptsToken)

	var filename string
	if interpolated {
		filename = regexp.QuoteMeta(e.Prefix + sourceFilename)
		if ext != sourceExt {
			filename += regexp.QuoteMeta("." + ext)
		}
	} else {
		filename = regexp.QuoteMeta(e.Prefix) + optsSegmentPattern +
			regexp.QuoteMeta("."+ext)
	}

	var segments []string
	if e.BaseDir != "" {
		segments = append(segments, templatePattern(e.BaseDir))
	}
	if dir != "" && dir != "." {
		segments = append(segments, regexp.QuoteMeta(dir))
	}
	if e.SubDir != "" {
		segments = append(segments, templatePattern(e.SubDir))
	}
	segments = append(segments, filename)

	return regexp.MustCompile("^" + strings.Join(segments, "/") + "$")
}

// templatePattern quotes a directory template, leaving a floating
// option-string pattern where the placeholder sat.
func templatePattern(template string) string {
	quoted := regexp.QuoteMeta(template)
	return strings.ReplaceAll(quoted, regexp.QuoteMeta(OptsToken), optsSegmentPattern)
}
