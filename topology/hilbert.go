package topology

// hilbertBits is the per-axis resolution used to discretize centroids before
// computing a Hilbert key. 16 bits (65536 distinct positions per axis) is
// far beyond anything a test-scale or even a production-scale regional mesh
// needs for good locality, and keeps hilbertBits*3 comfortably inside a
// uint64 so no big.Int bookkeeping is required.
const hilbertBits = 16

// hilbertAxesToTranspose implements Skilling's "AxesToTranspose" transform
// (J. Skilling, "Programming the Hilbert Curve", AIP Conf. Proc. 707, 2004):
// given a point X with dims coordinates, each holding hilbertBits bits, it
// rewrites X in place into the "transpose" representation of its position
// along the dims-dimensional Hilbert curve. The Hilbert index itself is the
// bits of the transposed X interleaved MSB-first across axes, which
// hilbertKey does below.
func hilbertAxesToTranspose(x []uint64, bits int) {
	dims := len(x)
	m := uint64(1) << uint(bits-1)

	// Inverse undo
	for q := m; q > 1; q >>= 1 {
		p := q - 1
		for i := 0; i < dims; i++ {
			if x[i]&q != 0 {
				x[0] ^= p
			} else {
				t := (x[0] ^ x[i]) & p
				x[0] ^= t
				x[i] ^= t
			}
		}
	}

	// Gray encode
	for i := 1; i < dims; i++ {
		x[i] ^= x[i-1]
	}
	var t uint64
	for q := m; q > 1; q >>= 1 {
		if x[dims-1]&q != 0 {
			t ^= q - 1
		}
	}
	for i := range x {
		x[i] ^= t
	}
}

// hilbertKey discretizes point into hilbertBits-per-axis integer
// coordinates using lo/hi per axis (the bounding box of the full point
// set), transposes it along the Hilbert curve, and packs the result into a
// single uint64 suitable for sorting. Axes with lo[i] == hi[i] are left out
// of the curve entirely (a degenerate axis carries no spatial information to
// order by), so points spread along a single axis get keys that increase
// with their coordinate on that axis.
func hilbertKey(point, lo, hi []float64) uint64 {
	x := make([]uint64, 0, len(point))
	const maxCoord = (uint64(1) << hilbertBits) - 1
	for i := range point {
		span := hi[i] - lo[i]
		if span <= 0 {
			continue
		}
		frac := (point[i] - lo[i]) / span
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		x = append(x, uint64(frac*float64(maxCoord)))
	}
	dims := len(x)
	if dims == 0 {
		return 0
	}
	hilbertAxesToTranspose(x, hilbertBits)

	var key uint64
	for b := hilbertBits - 1; b >= 0; b-- {
		for i := 0; i < dims; i++ {
			key = key<<1 | ((x[i] >> uint(b)) & 1)
		}
	}
	return key
}
