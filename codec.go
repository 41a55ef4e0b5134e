package sgpwm

import (
	"errors"
	"fmt"
	"image"
	"math/big"

	"github.com/sgpwm/sgpwm/internal/multiscale"
	"github.com/sgpwm/sgpwm/internal/qim"
	"github.com/sgpwm/sgpwm/internal/redundancy"
	"github.com/sgpwm/sgpwm/internal/transform"

	"github.com/sgpwm/sgpwm/imgio"
)

// Verdict is the outcome of an Audit call.
type Verdict int

const (
	// VerdictNoWatermark means no valid payload was recovered at any
	// scale. This is a normal outcome, not an error.
	VerdictNoWatermark Verdict = iota
	// VerdictWatermarked means a valid payload was recovered.
	VerdictWatermarked
)

func (v Verdict) String() string {
	if v == VerdictWatermarked {
		return "watermarked"
	}
	return "no_watermark"
}

// AuditRecord is the result of Audit.
type AuditRecord struct {
	Verdict         Verdict
	OriginalUID     *big.Int
	CurrentUID      *big.Int
	AllowDerivative bool
	AllowReprint    bool
	Confidence      float64
	ScaleUsed       int
}

// CreateMaster extracts any existing payload from img (at native
// resolution; only Audit retries at other scales), runs the DRM
// transition table against actorUID/flags, and embeds the
// resulting payload. It returns ErrDerivativeForbidden without producing
// output pixels if the existing payload belongs to a different owner
// that has not set AllowDerivative, and ErrTooSmall if img cannot carry
// the full redundant payload.
func CreateMaster(ctx CodecContext, img image.Image, actorUID *big.Int, flags Flags) (image.Image, Record, error) {
	if err := checkDimensions(img); err != nil {
		return nil, Record{}, err
	}

	existing, _, valid, err := extractRecord(img, ctx)
	if err != nil {
		return nil, Record{}, err
	}

	switch decide(actorUID, existing, valid) {
	case DecisionReject:
		return nil, Record{}, ErrDerivativeForbidden
	}

	newRecord := Record{
		OriginalUID: actorUID,
		CurrentUID:  new(big.Int),
		Flags:       flags,
	}
	out, err := embed(img, newRecord, ctx)
	if err != nil {
		return nil, Record{}, fmt.Errorf("sgpwm: create master: %w", err)
	}
	return out, newRecord, nil
}

// GenerateDistribution re-embeds the master's payload into the master's
// original pixels with CurrentUID replaced by recipientUID. It never
// invokes the DRM state machine and fails with
// ErrNotAMaster if img does not carry a valid payload with CurrentUID ==
// 0.
func GenerateDistribution(ctx CodecContext, masterImg image.Image, recipientUID *big.Int) (image.Image, Record, error) {
	if err := checkDimensions(masterImg); err != nil {
		return nil, Record{}, err
	}

	existing, _, valid, err := extractRecord(masterImg, ctx)
	if err != nil {
		return nil, Record{}, err
	}
	if !valid || !existing.IsMaster() {
		return nil, Record{}, ErrNotAMaster
	}

	newRecord := Record{
		OriginalUID: existing.OriginalUID,
		CurrentUID:  recipientUID,
		Flags:       existing.Flags,
	}
	out, err := embed(masterImg, newRecord, ctx)
	if err != nil {
		return nil, Record{}, fmt.Errorf("sgpwm: generate distribution: %w", err)
	}
	return out, newRecord, nil
}

// Audit runs the multi-scale extractor and reports
// whichever attempt is highest-confidence among valid decodes, or the
// highest-confidence invalid decode if none validated.
func Audit(ctx CodecContext, img image.Image) (AuditRecord, error) {
	if err := checkDimensions(img); err != nil {
		return AuditRecord{}, err
	}

	attempt := multiscale.Extract(img, func(candidate image.Image) (bool, float64, []byte) {
		return extractRaw(candidate, ctx)
	})

	rec := AuditRecord{
		Verdict:    VerdictNoWatermark,
		Confidence: attempt.Confidence,
		ScaleUsed:  attempt.Width,
	}
	if !attempt.Valid {
		return rec, nil
	}

	decoded, decodeErr := Deserialize(attempt.Payload, ctx.Strict)
	if decodeErr != nil {
		return rec, nil
	}
	rec.Verdict = VerdictWatermarked
	rec.OriginalUID = decoded.OriginalUID
	rec.CurrentUID = decoded.CurrentUID
	rec.AllowDerivative = decoded.Flags.AllowDerivative
	rec.AllowReprint = decoded.Flags.AllowReprint
	return rec, nil
}

// checkDimensions enforces the minimum input size, failing immediately
// at the API boundary before any transform work runs.
func checkDimensions(img image.Image) error {
	b := img.Bounds()
	if b.Dx() < MinDimension || b.Dy() < MinDimension {
		return ErrTooSmall
	}
	return nil
}

// embed runs the full embedding data flow: RGB -> YCrCb -> DWT ->
// block selection -> per-bit QIM -> inverse DWT -> RGB.
func embed(img image.Image, rec Record, ctx CodecContext) (image.Image, error) {
	buf, err := Serialize(rec)
	if err != nil {
		return nil, fmt.Errorf("serializing payload: %w", err)
	}
	bits := Bits(buf)

	r, g, b := imgio.ToPlanes(img)
	y, cb, cr := transform.SplitYCbCr(r, g, b)
	ll, lh, hl, hh := transform.Forward2DHaar(y)

	tiles, err := redundancy.Select(hl, ctx.Key)
	if err != nil {
		return nil, translateTooSmall(err)
	}
	groups := redundancy.BitAssignments(tiles)

	delta := ctx.step()
	for bitIndex, coords := range groups {
		bit := bits[bitIndex]
		for _, c := range coords {
			block := transform.ExtractBlock(hl, c.Row, c.Col)
			coeffs := transform.Forward8x8(block)
			coeffs[qim.CoeffU][qim.CoeffV] = qim.EmbedBit(coeffs[qim.CoeffU][qim.CoeffV], bit, delta)
			transform.PutBlock(hl, transform.Inverse8x8(coeffs), c.Row, c.Col)
		}
	}

	y2 := transform.Inverse2DHaar(ll, lh, hl, hh)
	r2, g2, b2 := transform.JoinYCbCr(y2, cb, cr)
	return imgio.FromPlanes(r2, g2, b2), nil
}

// extractRaw decodes a candidate payload from img at whatever resolution
// it currently is, returning the packed 32-byte buffer (valid per
// Deserialize's magic/CRC check or not) and the voter's
// confidence. It is the DecodeFunc the multiscale package drives across
// rescaled widths.
func extractRaw(img image.Image, ctx CodecContext) (valid bool, confidence float64, buf []byte) {
	r, g, b := imgio.ToPlanes(img)
	y, _, _ := transform.SplitYCbCr(r, g, b)
	_, _, hl, _ := transform.Forward2DHaar(y)

	tiles, err := redundancy.Select(hl, ctx.Key)
	if err != nil {
		return false, 0, nil
	}
	groups := redundancy.BitAssignments(tiles)

	delta := ctx.step()
	var samples [redundancy.PayloadBits][]int
	for bitIndex, coords := range groups {
		for _, c := range coords {
			block := transform.ExtractBlock(hl, c.Row, c.Col)
			coeffs := transform.Forward8x8(block)
			bit := qim.ExtractBit(coeffs[qim.CoeffU][qim.CoeffV], delta)
			samples[bitIndex] = append(samples[bitIndex], bit)
		}
	}

	bits, confidence, ok := redundancy.Vote(samples)
	if !ok {
		return false, 0, nil
	}
	buf = PackBits(bits)
	_, decodeErr := Deserialize(buf, ctx.Strict)
	return decodeErr == nil, confidence, buf
}

// extractRecord decodes a payload at native resolution only (no
// multi-scale retry — that is Audit's job) and reports whether it is
// valid, for use by the DRM state machine and by GenerateDistribution.
func extractRecord(img image.Image, ctx CodecContext) (rec Record, confidence float64, valid bool, err error) {
	r, g, b := imgio.ToPlanes(img)
	y, _, _ := transform.SplitYCbCr(r, g, b)
	_, _, hl, _ := transform.Forward2DHaar(y)

	tiles, selectErr := redundancy.Select(hl, ctx.Key)
	if selectErr != nil {
		return Record{}, 0, false, translateTooSmall(selectErr)
	}
	groups := redundancy.BitAssignments(tiles)

	delta := ctx.step()
	var samples [redundancy.PayloadBits][]int
	for bitIndex, coords := range groups {
		for _, c := range coords {
			block := transform.ExtractBlock(hl, c.Row, c.Col)
			coeffs := transform.Forward8x8(block)
			bit := qim.ExtractBit(coeffs[qim.CoeffU][qim.CoeffV], delta)
			samples[bitIndex] = append(samples[bitIndex], bit)
		}
	}

	bits, confidence, ok := redundancy.Vote(samples)
	if !ok {
		return Record{}, 0, false, nil
	}
	buf := PackBits(bits)
	decoded, decodeErr := Deserialize(buf, ctx.Strict)
	if decodeErr != nil {
		return Record{}, confidence, false, nil
	}
	return decoded, confidence, true, nil
}

func translateTooSmall(err error) error {
	if errors.Is(err, redundancy.ErrTooSmall) {
		return ErrTooSmall
	}
	return err
}
