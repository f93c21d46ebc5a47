// Package texture decodes body textures into RGBA pixels ready for GL upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Load reads and decodes an image file and returns it flipped so that the
// first row is the bottom of the image, which is what glTexImage2D expects
// for texture coordinates with v=0 at the top.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(data), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return ImageToRGBA(img, true), nil
}

// Decode decodes JPEG, PNG, BMP or TGA data, choosing the decoder by file
// extension. TGA has no magic number, so content sniffing cannot be relied on
// once its decoder is registered. Unknown extensions fall back to sniffing.
func Decode(r io.Reader, ext string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	case ".png":
		img, err = png.Decode(r)
	case ".bmp":
		img, err = bmp.Decode(r)
	case ".tga":
		img, err = tga.Decode(r)
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// ImageToRGBA converts any image to tightly packed RGBA with its origin at
// (0, 0), optionally flipping it vertically.
func ImageToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flipY {
		FlipVertical(rgba)
	}
	return rgba
}

// FlipVertical mirrors img top to bottom in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
