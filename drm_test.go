package sgpwm

import (
	"math/big"
	"testing"
)

// TestDecideCoversAllFourCases checks that the four DRM cases cover
// every combination of (payload present?, uid match?, derivative
// allowed?), with reject the only terminal case.
func TestDecideCoversAllFourCases(t *testing.T) {
	actor := big.NewInt(42)
	owner := big.NewInt(42)
	otherOwner := big.NewInt(99)

	tests := []struct {
		name     string
		existing Record
		valid    bool
		want     Decision
	}{
		{
			name:  "A: no existing payload",
			valid: false,
			want:  DecisionCreateMaster,
		},
		{
			name:     "B: existing payload owned by actor",
			existing: Record{OriginalUID: owner, CurrentUID: new(big.Int)},
			valid:    true,
			want:     DecisionUpdateMaster,
		},
		{
			name:     "C: existing payload owned by another, derivative allowed",
			existing: Record{OriginalUID: otherOwner, CurrentUID: new(big.Int), Flags: Flags{AllowDerivative: true}},
			valid:    true,
			want:     DecisionForkMaster,
		},
		{
			name:     "D: existing payload owned by another, derivative forbidden",
			existing: Record{OriginalUID: otherOwner, CurrentUID: new(big.Int), Flags: Flags{AllowDerivative: false}},
			valid:    true,
			want:     DecisionReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decide(actor, tt.existing, tt.valid)
			if got != tt.want {
				t.Errorf("decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{DecisionCreateMaster, "create-master"},
		{DecisionUpdateMaster, "update-master"},
		{DecisionForkMaster, "fork-master"},
		{DecisionReject, "reject"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
