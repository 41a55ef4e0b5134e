// Package multiscale implements a multi-scale extraction retry policy:
// re-run extraction at several rescaled widths and keep the
// highest-confidence valid decode.
package multiscale

import "image"

// TargetWidths is the ordered list of widths retried when native-size
// extraction yields an invalid payload.
var TargetWidths = []int{512, 768, 1024, 1280, 2048}

// DecodeFunc extracts a candidate payload from an image at whatever
// resolution it currently is. The caller (component H orchestration)
// supplies this so package multiscale never needs to import the root
// package's transform/QIM/redundancy pipeline directly.
type DecodeFunc func(img image.Image) (valid bool, confidence float64, payload []byte)

// Attempt records the outcome of one decode, at native size or at a
// resampled width.
type Attempt struct {
	Width      int
	Confidence float64
	Valid      bool
	Payload    []byte
}

// Extract runs decode at the image's native width; if that yields an
// invalid payload, it retries at every width in TargetWidths (height
// scaled proportionally via Resize) and returns the attempt whose
// payload is valid with the highest confidence. If no attempt is valid,
// it returns the best-confidence invalid attempt instead — a
// "no_watermark" verdict is a normal outcome, not an error.
func Extract(img image.Image, decode DecodeFunc) Attempt {
	nativeValid, nativeConf, nativePayload := decode(img)
	native := Attempt{
		Width:      img.Bounds().Dx(),
		Confidence: nativeConf,
		Valid:      nativeValid,
		Payload:    nativePayload,
	}
	if native.Valid {
		return native
	}

	attempts := []Attempt{native}
	for _, w := range TargetWidths {
		resized := Resize(img, w)
		valid, conf, payload := decode(resized)
		attempts = append(attempts, Attempt{
			Width:      w,
			Confidence: conf,
			Valid:      valid,
			Payload:    payload,
		})
	}

	return bestAttempt(attempts)
}

// bestAttempt picks the highest-confidence valid attempt if any exist,
// otherwise the highest-confidence attempt overall.
func bestAttempt(attempts []Attempt) Attempt {
	var bestValid, bestAny Attempt
	haveValid, haveAny := false, false

	for _, a := range attempts {
		if !haveAny || a.Confidence > bestAny.Confidence {
			bestAny = a
			haveAny = true
		}
		if a.Valid && (!haveValid || a.Confidence > bestValid.Confidence) {
			bestValid = a
			haveValid = true
		}
	}

	if haveValid {
		return bestValid
	}
	return bestAny
}
