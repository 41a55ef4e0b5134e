// Package transform implements the fixed numeric pipeline shared by
// embedding and extraction: RGB<->YCrCb conversion, a single-level 2-D
// Haar DWT, and an 8x8 type-II orthonormal DCT. Every function here is
// a pure transform over float64 planes, operating on Forward/Inverse
// pairs over parallel slices.
package transform

import "image/color"

// Plane is an H x W grid of float64 samples, row-major ([row][col]).
type Plane [][]float64

// SplitYCbCr converts an RGB image into a luma plane (full 0-255 range,
// float64) plus untouched chroma planes. Cb/Cr stay at their original
// uint8 precision because only luma is ever modulated; color.RGBToYCbCr
// implements the ITU-R BT.601 full-range conversion used here.
func SplitYCbCr(r, g, b [][]uint8) (y Plane, cb, cr [][]uint8) {
	h := len(r)
	w := 0
	if h > 0 {
		w = len(r[0])
	}
	y = make(Plane, h)
	cb = make([][]uint8, h)
	cr = make([][]uint8, h)
	for i := 0; i < h; i++ {
		y[i] = make([]float64, w)
		cb[i] = make([]uint8, w)
		cr[i] = make([]uint8, w)
		for j := 0; j < w; j++ {
			yy, cbv, crv := color.RGBToYCbCr(r[i][j], g[i][j], b[i][j])
			y[i][j] = float64(yy)
			cb[i][j] = cbv
			cr[i][j] = crv
		}
	}
	return y, cb, cr
}

// JoinYCbCr reassembles RGB planes from a (possibly modified) luma plane
// and the original chroma planes, clipping luma to [0,255] before
// conversion back to RGB.
func JoinYCbCr(y Plane, cb, cr [][]uint8) (r, g, b [][]uint8) {
	h := len(y)
	w := 0
	if h > 0 {
		w = len(y[0])
	}
	r = make([][]uint8, h)
	g = make([][]uint8, h)
	b = make([][]uint8, h)
	for i := 0; i < h; i++ {
		r[i] = make([]uint8, w)
		g[i] = make([]uint8, w)
		b[i] = make([]uint8, w)
		for j := 0; j < w; j++ {
			yy := clampU8(y[i][j])
			rr, gg, bb := color.YCbCrToRGB(yy, cb[i][j], cr[i][j])
			r[i][j] = rr
			g[i][j] = gg
			b[i][j] = bb
		}
	}
	return r, g, b
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
