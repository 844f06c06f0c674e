// Package imaging provides the default Engine implementation backed by
// the standard image packages and golang.org/x/image scalers.
//
// Decoding recognizes JPEG, PNG, GIF, WebP, BMP, and TIFF. Encoding is
// limited to JPEG, PNG, and GIF; the output format is fixed per engine
// rather than per call so all artifacts of one cache share an encoding.
package imaging

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"

	// Register the extra decoders Decode recognizes.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jmgilman/thumbcache/errors"
	"github.com/jmgilman/thumbcache/thumbnail"
)

// Format names an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
)

// Engine transforms images with a configurable scaler and encodes them
// in a fixed format.
//
// The option hints it understands:
//
//	"crop"    scale to cover the target box, then center-crop to it
//	"upscale" allow enlarging images smaller than the target
//
// Without "crop" the image is scaled to fit inside the target box,
// preserving aspect ratio.
type Engine struct {
	// Format selects the output encoding. Empty means JPEG.
	Format Format

	// Scaler performs the resampling. Nil means draw.CatmullRom.
	Scaler draw.Scaler
}

var _ thumbnail.Engine = (*Engine)(nil)

func (e *Engine) scaler() draw.Scaler {
	if e.Scaler != nil {
		return e.Scaler
	}
	return draw.CatmullRom
}

func (e *Engine) format() Format {
	if e.Format != "" {
		return e.Format
	}
	return FormatJPEG
}

// Decode reads an encoded image from r.
func (e *Engine) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// Process applies the option set to img.
func (e *Engine) Process(img image.Image, opts thumbnail.Options) (image.Image, error) {
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		return nil, errors.Newf(errors.CodeInvalidOptions,
			"size %s is not a pair of positive integers", opts.Size)
	}
	if opts.Bool("crop") {
		return e.cropCover(img, opts.Size, opts.Bool("upscale")), nil
	}
	return e.fit(img, opts.Size, opts.Bool("upscale")), nil
}

// fit scales img to fit inside the target box, preserving aspect ratio.
// Images already inside the box pass through unchanged unless upscale
// is set.
func (e *Engine) fit(img image.Image, size thumbnail.Size, upscale bool) image.Image {
	bounds := img.Bounds()
	scale := math.Min(
		float64(size.Width)/float64(bounds.Dx()),
		float64(size.Height)/float64(bounds.Dy()),
	)
	if scale >= 1 && !upscale {
		return img
	}
	return e.scale(img, scaled(bounds.Dx(), scale), scaled(bounds.Dy(), scale))
}

// cropCover scales img to cover the target box and center-crops the
// overflow. Without upscale the image is never enlarged, so the crop
// window shrinks to the image when it is smaller than the target.
func (e *Engine) cropCover(img image.Image, size thumbnail.Size, upscale bool) image.Image {
	bounds := img.Bounds()
	scale := math.Max(
		float64(size.Width)/float64(bounds.Dx()),
		float64(size.Height)/float64(bounds.Dy()),
	)
	if scale > 1 && !upscale {
		scale = 1
	}

	scaledImg := img
	if scale != 1 {
		scaledImg = e.scale(img, scaled(bounds.Dx(), scale), scaled(bounds.Dy(), scale))
	}

	sb := scaledImg.Bounds()
	cropW := min(size.Width, sb.Dx())
	cropH := min(size.Height, sb.Dy())
	if cropW == sb.Dx() && cropH == sb.Dy() {
		return scaledImg
	}

	origin := image.Pt(
		sb.Min.X+(sb.Dx()-cropW)/2,
		sb.Min.Y+(sb.Dy()-cropH)/2,
	)
	dst := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(dst, dst.Bounds(), scaledImg, origin, draw.Src)
	return dst
}

// scale resamples img to the exact target dimensions.
func (e *Engine) scale(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	e.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// scaled applies a scale factor to a dimension, never below one pixel.
func scaled(dim int, factor float64) int {
	v := int(math.Round(float64(dim) * factor))
	if v < 1 {
		return 1
	}
	return v
}

// Encode serializes img in the engine's format. Quality only affects
// JPEG output.
func (e *Engine) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f := e.format(); f {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, errors.Newf(errors.CodeEncodeFailed,
			"unsupported output format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
