package imagefile

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Decode reads an image in the given format. TGA has no magic number, so the
// format is never sniffed from the data.
func Decode(r io.Reader, f Format) (image.Image, error) {
	switch f {
	case WebP:
		return webp.Decode(r)
	case TGA:
		return tga.Decode(r)
	case BMP:
		return bmp.Decode(r)
	default:
		return png.Decode(r)
	}
}

// Load decodes the file at path into an NRGBA image, picking the decoder
// from the extension the same way Save picks the encoder.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagefile: read %s: %w", path, err)
	}
	defer f.Close()

	format := FormatFor(path)
	img, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("imagefile: decode %s as %s: %w", path, format, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
