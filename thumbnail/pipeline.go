package thumbnail

import (
	"image"

	"github.com/jmgilman/thumbcache/errors"
)

// Pipeline turns a decoded source image into encoded artifact bytes.
// It performs no storage I/O; persistence is the caller's concern.
type Pipeline struct {
	// Engine performs the transform and encode steps.
	Engine Engine

	// Quality is the default encoding quality applied when the option
	// set leaves it unset.
	Quality int
}

// Generate runs the transform and encode stages for one option set.
// Transform failures carry CodeTransformFailed, encode failures
// CodeEncodeFailed; both are fatal.
func (p Pipeline) Generate(src image.Image, opts Options) ([]byte, image.Rectangle, error) {
	processed, err := p.Engine.Process(src, opts)
	if err != nil {
		return nil, image.Rectangle{}, errors.Wrapf(err, errors.CodeTransformFailed,
			"transforming image to %s", opts.Size)
	}

	data, err := p.Engine.Encode(processed, opts.quality(p.Quality))
	if err != nil {
		return nil, image.Rectangle{}, errors.Wrap(err, errors.CodeEncodeFailed,
			"encoding transformed image")
	}

	return data, processed.Bounds(), nil
}
