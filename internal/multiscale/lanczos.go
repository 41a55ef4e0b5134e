package multiscale

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// lanczos4 is a custom golang.org/x/image/draw.Kernel: Kernel is a public
// extension point (Support float64, At func(float64) float64) that the
// package's own CatmullRom/ApproxBiLinear/BiLinear values are built from.
// x/image/draw ships no Lanczos kernel, so a Lanczos-4 one is supplied
// here and driven through draw.Kernel.Scale, rather than reimplementing
// the whole separable-convolution scaler by hand.
var lanczos4 = draw.Kernel{
	Support: 4,
	At:      lanczosWeight,
}

func lanczosWeight(t float64) float64 {
	const a = 4.0
	if t < 0 {
		t = -t
	}
	if t >= a {
		return 0
	}
	if t < 1e-12 {
		return 1
	}
	return sinc(t) * sinc(t/a)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Resize scales img so its width equals targetWidth, with height scaled
// proportionally (rounded to the nearest pixel), using a Lanczos-4
// kernel.
func Resize(img image.Image, targetWidth int) image.Image {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || targetWidth == srcW {
		return img
	}
	targetHeight := int(math.Round(float64(srcH) * float64(targetWidth) / float64(srcW)))
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	lanczos4.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
