// Package imgio converts between image.Image and the plain RGB pixel
// planes the codec operates on, and loads/saves PNG and JPEG files.
// It is deliberately thin: the watermarking logic never lives here,
// only pixel access and file I/O.
package imgio

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// ToPlanes decodes img into three H x W uint8 planes (row-major), one
// per RGB channel.
func ToPlanes(img image.Image) (r, g, b [][]uint8) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	r = make([][]uint8, h)
	g = make([][]uint8, h)
	b = make([][]uint8, h)
	for y := 0; y < h; y++ {
		r[y] = make([]uint8, w)
		g[y] = make([]uint8, w)
		b[y] = make([]uint8, w)
		for x := 0; x < w; x++ {
			rr, gg, bb, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r[y][x] = uint8(rr >> 8)
			g[y][x] = uint8(gg >> 8)
			b[y][x] = uint8(bb >> 8)
		}
	}
	return r, g, b
}

// FromPlanes reassembles an *image.NRGBA (opaque, alpha 255) from three
// RGB planes of equal dimensions.
func FromPlanes(r, g, b [][]uint8) *image.NRGBA {
	h := len(r)
	w := 0
	if h > 0 {
		w = len(r[0])
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			out.Pix[i+0] = r[y][x]
			out.Pix[i+1] = g[y][x]
			out.Pix[i+2] = b[y][x]
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// Load opens a JPEG or PNG file and normalizes it to *image.NRGBA.
// Any other registered image.Image decoder is tried via format
// auto-detection.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio: open %s: %w", path, err)
	}
	defer f.Close()

	var decoded image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		decoded, err = jpeg.Decode(f)
	case ".png":
		decoded, err = png.Decode(f)
	default:
		decoded, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("imgio: decode %s: %w", path, err)
	}

	bounds := decoded.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, decoded, bounds.Min, draw.Src)
	return nrgba, nil
}

// Save writes img to path as JPEG (quality 1-100) or PNG, selected by
// the path's extension; any other extension falls back to JPEG.
func Save(img image.Image, path string, jpegQuality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imgio: create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return fmt.Errorf("imgio: encode %s: %w", path, err)
	}
	return nil
}
