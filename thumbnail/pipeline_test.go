package thumbnail

import (
	"fmt"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/thumbcache/errors"
)

// stubEngine is a deterministic Engine for tests. Process returns a
// blank image of exactly the requested size; Encode returns a marker
// string recording dimensions and quality.
type stubEngine struct {
	decodeErr  error
	processErr error
	encodeErr  error

	decodeCalls  int
	processCalls int
	lastQuality  int
}

var _ Engine = (*stubEngine)(nil)

func (s *stubEngine) Decode(r io.Reader) (image.Image, error) {
	s.decodeCalls++
	if s.decodeErr != nil {
		return nil, s.decodeErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 200, 150)), nil
}

func (s *stubEngine) Process(img image.Image, opts Options) (image.Image, error) {
	s.processCalls++
	if s.processErr != nil {
		return nil, s.processErr
	}
	return image.NewRGBA(image.Rect(0, 0, opts.Size.Width, opts.Size.Height)), nil
}

func (s *stubEngine) Encode(img image.Image, quality int) ([]byte, error) {
	s.lastQuality = quality
	if s.encodeErr != nil {
		return nil, s.encodeErr
	}
	marker := fmt.Sprintf("encoded:%dx%d:q%d",
		img.Bounds().Dx(), img.Bounds().Dy(), quality)
	return []byte(marker), nil
}

func TestPipeline_Generate(t *testing.T) {
	engine := &stubEngine{}
	pipeline := Pipeline{Engine: engine, Quality: 80}

	src := image.NewRGBA(image.Rect(0, 0, 200, 150))
	data, bounds, err := pipeline.Generate(src, Options{Size: Size{100, 75}})
	require.NoError(t, err)

	assert.Equal(t, "encoded:100x75:q80", string(data))
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 75, bounds.Dy())
}

func TestPipeline_Generate_QualityOverride(t *testing.T) {
	engine := &stubEngine{}
	pipeline := Pipeline{Engine: engine, Quality: 80}

	src := image.NewRGBA(image.Rect(0, 0, 200, 150))
	_, _, err := pipeline.Generate(src, Options{Size: Size{100, 75}, Quality: 95})
	require.NoError(t, err)
	assert.Equal(t, 95, engine.lastQuality)
}

func TestPipeline_Generate_TransformError(t *testing.T) {
	engine := &stubEngine{processErr: fmt.Errorf("bad transform")}
	pipeline := Pipeline{Engine: engine, Quality: 80}

	src := image.NewRGBA(image.Rect(0, 0, 200, 150))
	_, _, err := pipeline.Generate(src, Options{Size: Size{100, 75}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeTransformFailed, errors.GetCode(err))
	assert.True(t, errors.IsFatal(err))
}

func TestPipeline_Generate_EncodeError(t *testing.T) {
	engine := &stubEngine{encodeErr: fmt.Errorf("bad encode")}
	pipeline := Pipeline{Engine: engine, Quality: 80}

	src := image.NewRGBA(image.Rect(0, 0, 200, 150))
	_, _, err := pipeline.Generate(src, Options{Size: Size{100, 75}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeEncodeFailed, errors.GetCode(err))
	assert.True(t, errors.IsFatal(err))
}
