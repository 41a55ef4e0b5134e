package multiscale

import (
	"image"
	"testing"
)

func TestExtractReturnsNativeAttemptWhenValid(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1024, 768))
	calls := 0
	decode := func(img image.Image) (bool, float64, []byte) {
		calls++
		return true, 0.9, []byte{1, 2, 3}
	}
	got := Extract(img, decode)
	if !got.Valid || got.Confidence != 0.9 || got.Width != 1024 {
		t.Fatalf("got %+v, want valid native attempt at width 1024", got)
	}
	if calls != 1 {
		t.Fatalf("decode called %d times, want 1 (no retries once native is valid)", calls)
	}
}

func TestExtractRetriesAllWidthsWhenNativeInvalid(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	var seenWidths []int
	decode := func(img image.Image) (bool, float64, []byte) {
		seenWidths = append(seenWidths, img.Bounds().Dx())
		return false, 0, nil
	}
	got := Extract(img, decode)
	if got.Valid {
		t.Fatalf("got.Valid = true, want false when every attempt is invalid")
	}
	// native + all TargetWidths
	if len(seenWidths) != 1+len(TargetWidths) {
		t.Fatalf("decode called with %d widths, want %d", len(seenWidths), 1+len(TargetWidths))
	}
}

func TestExtractPicksHighestConfidenceValidAttempt(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	decode := func(img image.Image) (bool, float64, []byte) {
		switch img.Bounds().Dx() {
		case 2000:
			return false, 0.2, nil
		case 1024:
			return true, 0.7, []byte{0xAA}
		case 1280:
			return true, 0.95, []byte{0xBB}
		default:
			return false, 0.1, nil
		}
	}
	got := Extract(img, decode)
	if !got.Valid || got.Width != 1280 || got.Confidence != 0.95 {
		t.Fatalf("got %+v, want the width-1280 attempt (highest valid confidence)", got)
	}
}

func TestExtractFallsBackToBestConfidenceInvalidAttempt(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	decode := func(img image.Image) (bool, float64, []byte) {
		switch img.Bounds().Dx() {
		case 768:
			return false, 0.4, nil
		default:
			return false, 0.1, nil
		}
	}
	got := Extract(img, decode)
	if got.Valid {
		t.Fatal("got.Valid = true, want false (no attempt ever valid)")
	}
	if got.Width != 768 || got.Confidence != 0.4 {
		t.Fatalf("got %+v, want the width-768 attempt (highest confidence overall)", got)
	}
}

func TestResizePreservesAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	out := Resize(img, 1000)
	b := out.Bounds()
	if b.Dx() != 1000 || b.Dy() != 500 {
		t.Fatalf("Resize produced %dx%d, want 1000x500", b.Dx(), b.Dy())
	}
}

func TestResizeIsNoopWhenWidthUnchanged(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 512, 300))
	out := Resize(img, 512)
	if out != image.Image(img) {
		t.Fatal("Resize should return the same image when targetWidth equals source width")
	}
}
