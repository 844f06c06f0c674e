package thumbnail

import (
	"image"
	"io"
)

// Engine decodes, transforms, and encodes images. The cache treats it
// as an opaque pipeline stage: what an option hint like "crop" means is
// entirely up to the engine, the cache only folds hints into names.
//
// Implementations must be safe for concurrent use.
type Engine interface {
	// Decode reads an encoded image from r.
	Decode(r io.Reader) (image.Image, error)

	// Process applies the option set to a decoded image and returns
	// the transformed result.
	Process(img image.Image, opts Options) (image.Image, error)

	// Encode serializes a transformed image at the given quality.
	Encode(img image.Image, quality int) ([]byte, error)
}
