package sgpwm

import "image"

// makeTexturedImage builds a deterministic w x h RGB test image whose
// pixel values vary in both the horizontal and vertical directions, so
// every 8x8 tile of the HL subband has a distinct, nonzero variance
// (required for redundancy.Select's variance ranking to behave, and to
// avoid every tile looking identical the way a flat or purely
// horizontal-gradient fixture would).
func makeTexturedImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8((x*37 + y*53 + (x^y)*7) % 256)
			g := uint8((x*19 + y*91 + (x+y)*3) % 256)
			b := uint8((x*83 + y*11 + (x*y)%97) % 256)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xff
		}
	}
	return img
}
