// Package redundancy implements adaptive Top-N block selection,
// redundant bit replication, and majority-vote recovery.
package redundancy

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sgpwm/sgpwm/internal/blockindex"
	"github.com/sgpwm/sgpwm/internal/transform"
)

// PayloadBits is N, the number of payload bits.
const PayloadBits = 256

// Redundancy is R, the number of blocks that carry each payload bit.
const Redundancy = 5

// BlocksNeeded is B = N * R, the total blocks the codec must select.
const BlocksNeeded = PayloadBits * Redundancy

// safetyBufferSize is 2*B, the candidate pool variance-ranking draws
// from before it is reordered by the key-driven order and cut to
// BlocksNeeded. The key order drops no candidate; the spare candidates
// leave room for tile variances near the cut-off to shift (as after
// lossy re-encoding) without changing the pool — do not reduce this
// below ~1.5x.
const safetyBufferSize = 2 * BlocksNeeded

// ErrTooSmall is returned when the HL subband does not contain enough
// 8x8 tiles to carry the full payload.
var ErrTooSmall = errors.New("sgpwm: image too small for redundant payload encoding")

// Select runs the adaptive Top-N strategy and returns exactly
// BlocksNeeded coordinates, ordered so that Tiles[i] carries bit (i %
// PayloadBits) — column-major replication across R rounds.
//
// Embedding and extraction both call Select with the same (hl, key) and
// therefore always agree on which tiles carry which bit.
func Select(hl transform.Plane, key []byte) ([]blockindex.Coord, error) {
	hSub := len(hl)
	wSub := 0
	if hSub > 0 {
		wSub = len(hl[0])
	}

	all := blockindex.Enumerate(wSub, hSub)
	if len(all) < BlocksNeeded {
		return nil, ErrTooSmall
	}

	rankByVariance(all, hl)

	bufSize := safetyBufferSize
	if bufSize > len(all) {
		bufSize = len(all)
	}
	buffer := all[:bufSize]

	order := blockindex.Order(key, wSub, hSub)
	posInOrder := make(map[blockindex.Coord]int, len(order))
	for i, c := range order {
		posInOrder[c] = i
	}

	reordered := make([]blockindex.Coord, len(buffer))
	copy(reordered, buffer)
	sort.SliceStable(reordered, func(i, j int) bool {
		return posInOrder[reordered[i]] < posInOrder[reordered[j]]
	})

	if len(reordered) < BlocksNeeded {
		// The safety buffer and the key permutation are both drawn from
		// the same full coordinate set, so every buffer entry must
		// appear in order; this would only happen from a programming
		// error in Select or Order, not a data condition.
		panic("sgpwm: fewer than BlocksNeeded tiles survived key intersection")
	}
	return reordered[:BlocksNeeded], nil
}

// rankByVariance sorts coords in place by descending tile variance,
// breaking ties by ascending (row, col) — coordinate anchoring, so the
// ranking is a pure function of the image rather than of sort
// stability.
func rankByVariance(coords []blockindex.Coord, hl transform.Plane) {
	variance := make(map[blockindex.Coord]float64, len(coords))
	for _, c := range coords {
		variance[c] = tileVariance(hl, c.Row, c.Col)
	}
	sort.Slice(coords, func(i, j int) bool {
		vi, vj := variance[coords[i]], variance[coords[j]]
		if vi != vj {
			return vi > vj
		}
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
}

// tileVariance computes the sample (n-1) variance of an 8x8 tile using
// gonum's stat package — a plain numeric reduction, not a
// determinism-critical transform, so it is not hand-rolled (see
// DESIGN.md).
func tileVariance(hl transform.Plane, row, col int) float64 {
	values := make([]float64, 0, transform.BlockSize*transform.BlockSize)
	for i := 0; i < transform.BlockSize; i++ {
		values = append(values, hl[row+i][col:col+transform.BlockSize]...)
	}
	return stat.Variance(values, nil)
}

// BitAssignments groups the BlocksNeeded tiles Select returns by the
// payload bit index each carries.
func BitAssignments(tiles []blockindex.Coord) [PayloadBits][]blockindex.Coord {
	var groups [PayloadBits][]blockindex.Coord
	for i, c := range tiles {
		bit := i % PayloadBits
		groups[bit] = append(groups[bit], c)
	}
	return groups
}

// Vote recovers the N-bit payload from per-bit coefficient samples via
// majority vote, returning the decoded bits and a confidence score:
// min over bit positions of (majority_count / Redundancy), in [0,1].
// An empty samples slice for any bit position is reported via ok=false.
func Vote(samples [PayloadBits][]int) (bits []int, confidence float64, ok bool) {
	bits = make([]int, PayloadBits)
	confidence = 1.0
	for i, s := range samples {
		if len(s) == 0 {
			return nil, 0, false
		}
		ones := 0
		for _, b := range s {
			if b == 1 {
				ones++
			}
		}
		majorityBit := 0
		majorityCount := len(s) - ones
		if ones*2 >= len(s) {
			majorityBit = 1
			majorityCount = ones
		}
		bits[i] = majorityBit
		frac := float64(majorityCount) / float64(Redundancy)
		if frac < confidence {
			confidence = frac
		}
	}
	return bits, confidence, true
}
