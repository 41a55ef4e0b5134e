package transform

import "math"

// BlockSize is the fixed tile edge length the DCT and QIM modulator
// operate on.
const BlockSize = 8

// dctCos[u][x] = cos(pi/N * (x+0.5) * u) for N = BlockSize, precomputed
// once so Forward8x8/Inverse8x8 never recompute a trig table per call —
// the same separable-basis-table idea as a lookup-table DCT, just sized
// for our fixed 8x8 block instead of JPEG2000's variable tile size.
var dctCos [BlockSize][BlockSize]float64

// dctAlpha[u] is the orthonormal scale factor: sqrt(1/N) for u=0, else
// sqrt(2/N).
var dctAlpha [BlockSize]float64

func init() {
	const n = BlockSize
	for u := 0; u < n; u++ {
		for x := 0; x < n; x++ {
			dctCos[u][x] = math.Cos(math.Pi / float64(n) * (float64(x) + 0.5) * float64(u))
		}
		if u == 0 {
			dctAlpha[u] = math.Sqrt(1.0 / float64(n))
		} else {
			dctAlpha[u] = math.Sqrt(2.0 / float64(n))
		}
	}
}

// Forward8x8 computes the 8x8 type-II orthonormal DCT of block in place
// semantics (returns a new block; block is not mutated).
func Forward8x8(block [BlockSize][BlockSize]float64) [BlockSize][BlockSize]float64 {
	var tmp, out [BlockSize][BlockSize]float64

	// Rows: transform along x for each fixed row (y), producing
	// intermediate coefficients indexed by (u, y).
	for y := 0; y < BlockSize; y++ {
		for u := 0; u < BlockSize; u++ {
			var sum float64
			for x := 0; x < BlockSize; x++ {
				sum += block[y][x] * dctCos[u][x]
			}
			tmp[u][y] = dctAlpha[u] * sum
		}
	}
	// Columns: transform along y for each fixed u, producing (u, v).
	for u := 0; u < BlockSize; u++ {
		for v := 0; v < BlockSize; v++ {
			var sum float64
			for y := 0; y < BlockSize; y++ {
				sum += tmp[u][y] * dctCos[v][y]
			}
			out[u][v] = dctAlpha[v] * sum
		}
	}
	return out
}

// Inverse8x8 computes the inverse of Forward8x8. The orthonormal DCT-II
// is a unitary transform, so its inverse is its transpose applied with
// the same basis (DCT-III with matching normalization).
func Inverse8x8(coeffs [BlockSize][BlockSize]float64) [BlockSize][BlockSize]float64 {
	var tmp, out [BlockSize][BlockSize]float64

	for u := 0; u < BlockSize; u++ {
		for y := 0; y < BlockSize; y++ {
			var sum float64
			for v := 0; v < BlockSize; v++ {
				sum += dctAlpha[v] * coeffs[u][v] * dctCos[v][y]
			}
			tmp[u][y] = sum
		}
	}
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			var sum float64
			for u := 0; u < BlockSize; u++ {
				sum += dctAlpha[u] * tmp[u][y] * dctCos[u][x]
			}
			out[y][x] = sum
		}
	}
	return out
}

// ExtractBlock copies an 8x8 tile out of plane at (row, col).
func ExtractBlock(plane Plane, row, col int) [BlockSize][BlockSize]float64 {
	var block [BlockSize][BlockSize]float64
	for i := 0; i < BlockSize; i++ {
		copy(block[i][:], plane[row+i][col:col+BlockSize])
	}
	return block
}

// PutBlock writes an 8x8 tile into plane at (row, col).
func PutBlock(plane Plane, block [BlockSize][BlockSize]float64, row, col int) {
	for i := 0; i < BlockSize; i++ {
		copy(plane[row+i][col:col+BlockSize], block[i][:])
	}
}
