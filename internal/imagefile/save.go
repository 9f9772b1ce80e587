// Package imagefile writes rendered frames to disk and reads them back.
// The encoding is chosen from the file extension.
package imagefile

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
	BMP  Format = "bmp"
)

// FormatFor returns the encoding used for path. Unknown extensions fall back to PNG.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebP
	case ".tga":
		return TGA
	case ".bmp":
		return BMP
	default:
		return PNG
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TGA:
		return tga.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// Save encodes img to path, creating parent directories as needed.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("imagefile: mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imagefile: create %s: %w", path, err)
	}

	format := FormatFor(path)
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("imagefile: encode %s as %s: %w", path, format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imagefile: close %s: %w", path, err)
	}
	return nil
}
