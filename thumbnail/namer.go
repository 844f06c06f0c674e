package thumbnail

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jmgilman/thumbcache/errors"
)

// OptsToken is the placeholder that directory templates may embed to
// interpolate the canonical option string into the artifact path.
const OptsToken = "{opts}"

// optsSeparator joins option tokens into the canonical option string.
const optsSeparator = "_"

// defaultExtension is used when no extension is forced and the source
// name has none of its own.
const defaultExtension = "jpg"

// NameEncoder derives canonical artifact names from a source name and
// an option set.
//
// Encoding is a pure function: the same inputs always yield the same
// output, independent of call order or process. Option tokens are
// ordered by key only (lexicographically), so two option sets with
// identical key/value pairs canonicalize to the identical name no
// matter how they were built.
type NameEncoder struct {
	// BaseDir is a directory template prepended to the source
	// directory. May embed OptsToken.
	BaseDir string

	// SubDir is a directory template inserted between the source
	// directory and the filename. May embed OptsToken.
	SubDir string

	// Prefix is prepended to the filename portion.
	Prefix string

	// Quality is the default quality used when the option set omits
	// one.
	Quality int

	// Extension forces the artifact extension. Empty falls back to
	// the source's own extension (lowercased), then "jpg".
	Extension string
}

// Encode returns the canonical artifact name for the given source name
// and options.
//
// The option string is "WxH_qQ" followed by the remaining options in
// key order: a bare key for boolean true, "key-value" otherwise, with
// falsy values omitted entirely. When neither directory template
// interpolates the option string, it becomes the filename itself (the
// options are what distinguish artifacts within the directory); when a
// template does interpolate it, the filename keeps the source name and
// gains an extension suffix only if it differs from the source's own.
func (e NameEncoder) Encode(sourceName string, opts Options) (string, error) {
	if sourceName == "" {
		return "", errors.New(errors.CodeInvalidSource, "source name is empty")
	}
	if !opts.Size.valid() {
		return "", errors.Newf(errors.CodeInvalidOptions,
			"size %s is not a pair of positive integers", opts.Size)
	}

	dir, sourceFilename := path.Split(sourceName)
	dir = strings.TrimSuffix(dir, "/")

	ext, sourceExt := e.extensionFor(sourceFilename)

	tokens := []string{
		opts.Size.String(),
		fmt.Sprintf("q%d", opts.quality(e.Quality)),
	}
	tokens = append(tokens, extraTokens(opts.Extra)...)
	optsString := strings.Join(tokens, optsSeparator)

	basedir := strings.ReplaceAll(e.BaseDir, OptsToken, optsString)
	subdir := strings.ReplaceAll(e.SubDir, OptsToken, optsString)

	interpolated := strings.Contains(e.BaseDir, OptsToken) ||
		strings.Contains(e.SubDir, OptsToken)

	var filename string
	if interpolated {
		// Options live in the directory; the filename identifies the
		// source. The extension is only suffixed when it diverges from
		// the source's own.
		filename = e.Prefix + sourceFilename
		if ext != sourceExt {
			filename += "." + ext
		}
	} else {
		// Options are the filename; they are what disambiguates
		// artifacts within the directory.
		filename = e.Prefix + optsString + "." + ext
	}

	return path.Join(basedir, dir, subdir, filename), nil
}

// extensionFor resolves the artifact extension for a source filename,
// returning it alongside the source's own extension. Artifact names
// suffix the extension only when the two differ.
func (e NameEncoder) extensionFor(sourceFilename string) (ext, sourceExt string) {
	sourceExt = strings.TrimPrefix(path.Ext(sourceFilename), ".")
	ext = e.Extension
	if ext == "" {
		ext = strings.ToLower(sourceExt)
	}
	if ext == "" {
		ext = defaultExtension
	}
	return ext, sourceExt
}

// Directory returns the directory portion of artifact names for the
// given source, with any option interpolation stripped at the first
// template component that contains it. It is the listing prefix used
// for thumbnail cleanup.
func (e NameEncoder) Directory(sourceName string) string {
	dir, _ := path.Split(sourceName)
	dir = strings.TrimSuffix(dir, "/")

	basedir := truncateAtToken(e.BaseDir)
	if strings.Contains(e.BaseDir, OptsToken) {
		return path.Join(basedir)
	}
	subdir := truncateAtToken(e.SubDir)
	return path.Join(basedir, dir, subdir)
}

// truncateAtToken cuts a directory template at the first path
// component embedding OptsToken.
func truncateAtToken(template string) string {
	if !strings.Contains(template, OptsToken) {
		return template
	}
	parts := strings.Split(template, "/")
	for i, part := range parts {
		if strings.Contains(part, OptsToken) {
			return strings.Join(parts[:i], "/")
		}
	}
	return template
}

// extraTokens renders the non-core options as name tokens, ordered by
// key. Boolean true renders as the bare key; falsy values are dropped;
// everything else renders as "key-value".
func extraTokens(extra map[string]interface{}) []string {
	if len(extra) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tokens := make([]string, 0, len(keys))
	for _, k := range keys {
		v := extra[k]
		if !truthy(v) {
			continue
		}
		if b, ok := v.(bool); ok && b {
			tokens = append(tokens, k)
			continue
		}
		tokens = append(tokens, fmt.Sprintf("%s-%v", k, v))
	}
	return tokens
}
