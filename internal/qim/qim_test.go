package qim

import "testing"

func TestEmbedThenExtractRecoversBit(t *testing.T) {
	coeffs := []float64{-123.4, -40, -1, 0, 1, 19.9, 40.0, 83.2, 512.5}
	for _, c := range coeffs {
		for _, bit := range []int{0, 1} {
			embedded := EmbedBit(c, bit, DefaultStep)
			got := ExtractBit(embedded, DefaultStep)
			if got != bit {
				t.Errorf("EmbedBit(%v, %d) -> ExtractBit = %d, want %d", c, bit, got, bit)
			}
		}
	}
}

func TestEmbedIsIdempotentOnSameBit(t *testing.T) {
	c := 83.2
	once := EmbedBit(c, 1, DefaultStep)
	twice := EmbedBit(once, 1, DefaultStep)
	if once != twice {
		t.Errorf("re-embedding the same bit changed the coefficient: %v -> %v", once, twice)
	}
}

func TestEmbedStaysWithinOneStepOfOriginal(t *testing.T) {
	for _, c := range []float64{-10.1, 0, 5.5, 100.25} {
		for _, bit := range []int{0, 1} {
			embedded := EmbedBit(c, bit, DefaultStep)
			if d := embedded - c; d > DefaultStep || d < -DefaultStep {
				t.Errorf("EmbedBit(%v, %d) moved coefficient by %v, more than one step", c, bit, d)
			}
		}
	}
}

func TestRobustToSubHalfStepPerturbation(t *testing.T) {
	c := 100.0
	embedded := EmbedBit(c, 1, DefaultStep)
	perturbations := []float64{19.9, -19.9, 0}
	for _, eps := range perturbations {
		got := ExtractBit(embedded+eps, DefaultStep)
		if got != 1 {
			t.Errorf("ExtractBit(%v + %v) = %d, want 1 (within Delta/2 margin)", embedded, eps, got)
		}
	}
}
