// Package blockindex implements the key-driven deterministic ordering of
// 8x8 block coordinates within an HL subband: hash the key, seed a
// xoshiro256** generator from the hash, and Fisher-Yates shuffle the
// coordinate list with it.
package blockindex

import (
	"crypto/sha256"
	"encoding/binary"
)

// Coord is the top-left pixel of an 8x8 tile within an HL subband.
type Coord struct {
	Row, Col int
}

// Seed derives the 64-bit PRNG seed from the key and HL subband
// dimensions: SHA-256(K || u32_le(Wsub) || u32_le(Hsub)), truncated to
// its low 8 bytes, read as a uint64.
func Seed(key []byte, wSub, hSub int) uint64 {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint32(lenBuf[0:4], uint32(wSub))
	binary.LittleEndian.PutUint32(lenBuf[4:8], uint32(hSub))

	h := sha256.New()
	h.Write(key)
	h.Write(lenBuf[:])
	sum := h.Sum(nil)

	return binary.BigEndian.Uint64(sum[len(sum)-8:])
}

// Order returns the canonical, deterministic ordering of 8x8 block
// coordinates within an HL subband of dimensions hSub x wSub, given
// secret key. Two calls with the same (key, wSub, hSub) always return
// the same slice, on any platform.
func Order(key []byte, wSub, hSub int) []Coord {
	coords := Enumerate(wSub, hSub)

	rng := seedXoshiro256ss(Seed(key, wSub, hSub))
	fisherYatesShuffle(coords, rng)
	return coords
}

// Enumerate lists every 8x8 tile's top-left coordinate within an hSub x
// wSub subband, row-major. Component E (package redundancy) calls this
// directly to rank tiles by variance before intersecting with Order's
// key-driven permutation.
func Enumerate(wSub, hSub int) []Coord {
	nRows := hSub / 8
	nCols := wSub / 8
	coords := make([]Coord, 0, nRows*nCols)
	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			coords = append(coords, Coord{Row: r * 8, Col: c * 8})
		}
	}
	return coords
}

// fisherYatesShuffle shuffles coords in place: for i from the last
// index down to 1, swap coords[i] with coords[j] for a uniform j in
// [0, i].
func fisherYatesShuffle(coords []Coord, rng *xoshiro256ss) {
	for i := len(coords) - 1; i > 0; i-- {
		j := rng.uintn(uint64(i + 1))
		coords[i], coords[j] = coords[j], coords[i]
	}
}
