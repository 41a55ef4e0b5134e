package sgpwm

import "math/big"

// Decision enumerates the outcome of the DRM transition table. Exactly
// one of the four cases applies to any (actor, extracted payload) pair.
type Decision int

const (
	// DecisionCreateMaster fires when no valid payload was extracted:
	// the image is untouched or carries no recoverable watermark.
	DecisionCreateMaster Decision = iota
	// DecisionUpdateMaster fires when the extracted payload's
	// OriginalUID already matches the actor.
	DecisionUpdateMaster
	// DecisionForkMaster fires when the extracted payload belongs to a
	// different owner who has set AllowDerivative.
	DecisionForkMaster
	// DecisionReject fires when the extracted payload belongs to a
	// different owner who has not set AllowDerivative.
	DecisionReject
)

// String returns the decision's name.
func (d Decision) String() string {
	switch d {
	case DecisionCreateMaster:
		return "create-master"
	case DecisionUpdateMaster:
		return "update-master"
	case DecisionForkMaster:
		return "fork-master"
	case DecisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// decide runs the four-way DRM transition table. existing and
// existingValid describe the payload (if any) extracted
// from the input image before this call; existingValid is false whenever existing
// should be treated as absent (state A), whether because extraction
// found nothing or found an invalid record.
func decide(actorUID *big.Int, existing Record, existingValid bool) Decision {
	if !existingValid {
		return DecisionCreateMaster
	}
	if existing.OriginalUID.Cmp(actorUID) == 0 {
		return DecisionUpdateMaster
	}
	if existing.Flags.AllowDerivative {
		return DecisionForkMaster
	}
	return DecisionReject
}
