// Package sgpwm provides a pure Go implementation of a deterministic
// spread-spectrum image watermarking codec.
//
// The codec embeds a fixed 32-byte payload (owner identity, holder
// identity, permission flags) into the luma channel of an RGB image by
// quantizing one DCT coefficient per selected 8x8 block, and recovers it
// via redundant majority voting across multiple blocks and, if necessary,
// multiple rescaled copies of the image. Embedding and extraction are
// both pure functions of their inputs: the same (key, step, payload,
// pixels) always produce the same output.
//
// Basic usage for creating a master:
//
//	ctx := sgpwm.CodecContext{Key: []byte("a secret at least 16 bytes long"), Step: sgpwm.DefaultStep}
//	watermarked, rec, err := sgpwm.CreateMaster(ctx, img, actorUID, flags)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Basic usage for auditing a possibly-watermarked image:
//
//	audit, err := sgpwm.Audit(ctx, img)
//	if err != nil {
//	    log.Fatal(err)
//	}
package sgpwm

import (
	"errors"

	"github.com/sgpwm/sgpwm/internal/qim"
)

// DefaultStep is the QIM quantization step used when a CodecContext
// leaves Step at its zero value.
const DefaultStep = qim.DefaultStep

// MinDimension is the smallest width or height the codec accepts as
// input; smaller images fail with ErrTooSmall before any transform runs.
const MinDimension = 128

// CodecContext bundles the parameters every codec call needs explicitly.
// The key and step are never process-global state, so calls stay pure
// and concurrency-safe.
type CodecContext struct {
	// Key is the secret controlling block selection order. Callers
	// should supply at least 16 bytes of entropy.
	Key []byte
	// Step is the QIM quantization step Delta. Zero means DefaultStep.
	Step float64
	// Strict rejects a nonzero reserved byte or reserved flag bits on
	// decode instead of ignoring them; lenient is the default, matching
	// the zero value.
	Strict bool
}

func (c CodecContext) step() float64 {
	if c.Step == 0 {
		return DefaultStep
	}
	return c.Step
}

// Sentinel errors surfaced to callers.
var (
	// ErrTooSmall is returned when the input image is smaller than
	// MinDimension in either dimension, or when an HL subband has fewer
	// 8x8 tiles than the redundant encoder needs.
	ErrTooSmall = errors.New("sgpwm: image too small")
	// ErrNotAMaster is returned by GenerateDistribution when the input
	// image does not carry a valid payload with CurrentUID == 0.
	ErrNotAMaster = errors.New("sgpwm: input image is not a valid master")
	// ErrDerivativeForbidden is returned by CreateMaster when the actor
	// does not own the existing payload and AllowDerivative is false.
	ErrDerivativeForbidden = errors.New("sgpwm: derivative works are forbidden by the existing payload")
)
