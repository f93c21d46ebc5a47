package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// twoRows builds a 2x2 image with a red top row and a blue bottom row.
func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetNRGBA(x, 0, red)
		img.SetNRGBA(x, 1, blue)
	}
	return img
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		ext    string
		encode func(io.Writer, image.Image) error
	}{
		{"png", ".png", png.Encode},
		{"bmp", ".bmp", bmp.Encode},
		{"tga", ".tga", tga.Encode},
		{"tga upper case", ".TGA", tga.Encode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.encode(&buf, twoRows()))

			img, err := Decode(&buf, tt.ext)
			require.NoError(t, err)
			assert.Equal(t, 2, img.Bounds().Dx())

			rgba := ImageToRGBA(img, false)
			assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 0))
			assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(1, 1))
		})
	}
}

func TestDecodeJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}))

	img, err := Decode(&buf, ".jpg")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")), ".png")
	assert.Error(t, err)
}

func TestImageToRGBAFlip(t *testing.T) {
	rgba := ImageToRGBA(twoRows(), true)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 1))
}

func TestImageToRGBARebasesOrigin(t *testing.T) {
	src := twoRows().SubImage(image.Rect(0, 1, 2, 2))
	rgba := ImageToRGBA(src, false)

	assert.Equal(t, image.Rect(0, 0, 2, 1), rgba.Bounds())
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Len(t, rgba.Pix, 2*1*4)
}

func TestFlipVerticalOddHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.Pix = []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}

	FlipVertical(img)
	assert.Equal(t, []byte{3, 3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 1}, img.Pix)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earth.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, twoRows()))
	require.NoError(t, f.Close())

	rgba, err := Load(path)
	require.NoError(t, err)
	// Bottom row first
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(0, 0))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
