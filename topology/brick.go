package topology

import "sort"

// brickGenerate emits the full global mesh of a dim-dimensional axis-aligned
// brick. elemRange[d] is the ordered sequence of element-corner
// coordinates along axis d; len(elemRange[d])-1 is the element count along
// that axis. periodicity[d] wraps axis d; boundary[d] = [low, high] gives
// the boundary tag for the two physical faces of axis d when it is not
// periodic.
//
// Every rank calls this with the same arguments and computes the same
// result with no communication: the brick depends only on the axis
// descriptors, never on which elements a particular rank will end up
// owning after partitioning.
func brickGenerate(elemRange [][]float64, periodicity []bool, boundary [][2]int) (*globalMesh, error) {
	dim := len(elemRange)
	for d, axis := range elemRange {
		if len(axis) < 2 {
			return nil, newErr(InvalidShape, "axis %d has %d corner coordinates, need at least 2", d, len(axis))
		}
	}

	nElemAxis := make([]int, dim)
	nVertAxis := make([]int, dim)
	for d := range elemRange {
		nElemAxis[d] = len(elemRange[d]) - 1
		nVertAxis[d] = len(elemRange[d])
	}

	vertStride := make([]int, dim)
	stride := 1
	for d := 0; d < dim; d++ {
		vertStride[d] = stride
		stride *= nVertAxis[d]
	}
	vertID := func(idx []int) int {
		id := 0
		for d := 0; d < dim; d++ {
			id += idx[d] * vertStride[d]
		}
		return id
	}

	nCorner := 1 << dim
	nElemTotal := 1
	for _, n := range nElemAxis {
		nElemTotal *= n
	}

	g := &globalMesh{dim: dim}
	g.elemToVert = make([][]int, 0, nElemTotal)
	g.elemToCoord = make([][][3]float64, 0, nElemTotal)
	g.elemToBndy = make([][]int, 0, nElemTotal)
	g.globalID = make([]int, 0, nElemTotal)

	elemIdx := make([]int, dim)
	nFaces := 2 * dim
	gid := 0
	for {
		verts := make([]int, nCorner)
		coords := make([][3]float64, nCorner)
		lattice := make([]int, dim)
		for c := 0; c < nCorner; c++ {
			for a := 0; a < dim; a++ {
				if c&(1<<a) != 0 {
					lattice[a] = elemIdx[a] + 1
				} else {
					lattice[a] = elemIdx[a]
				}
			}
			verts[c] = vertID(lattice)
			var xyz [3]float64
			for a := 0; a < dim; a++ {
				xyz[a] = elemRange[a][lattice[a]]
			}
			coords[c] = xyz
		}

		bndy := make([]int, nFaces)
		for a := 0; a < dim; a++ {
			if periodicity[a] {
				continue
			}
			if elemIdx[a] == 0 {
				bndy[2*a] = boundary[a][0]
			}
			if elemIdx[a] == nElemAxis[a]-1 {
				bndy[2*a+1] = boundary[a][1]
			}
		}

		g.elemToVert = append(g.elemToVert, verts)
		g.elemToCoord = append(g.elemToCoord, coords)
		g.elemToBndy = append(g.elemToBndy, bndy)
		g.globalID = append(g.globalID, gid)
		gid++

		if !incrementIndex(elemIdx, nElemAxis) {
			break
		}
	}

	g.faceConnections = brickPeriodicPairs(dim, nVertAxis, periodicity, vertID)
	return g, nil
}

// incrementIndex advances idx (axis 0 fastest) through the box [0,bound)
// in row-major order with axis 0 innermost, returning false once it has
// wrapped past the last multi-index.
func incrementIndex(idx, bound []int) bool {
	for d := 0; d < len(idx); d++ {
		idx[d]++
		if idx[d] < bound[d] {
			return true
		}
		idx[d] = 0
	}
	return false
}

// brickPeriodicPairs emits, for every periodic axis, the vertex-id pairs
// that must be fused by the connectivity engine's union-find step: every
// lattice point on the low face of that axis paired with its counterpart on
// the high face.
func brickPeriodicPairs(dim int, nVertAxis []int, periodicity []bool, vertID func([]int) int) [][2]int {
	var pairs [][2]int
	for a := 0; a < dim; a++ {
		if !periodicity[a] {
			continue
		}
		// Iterate every lattice point with index 0 along axis a, free on
		// the others.
		free := make([]int, 0, dim-1)
		bound := make([]int, 0, dim-1)
		for d := 0; d < dim; d++ {
			if d == a {
				continue
			}
			free = append(free, d)
			bound = append(bound, nVertAxis[d])
		}
		sub := make([]int, len(free))
		for {
			lo := make([]int, dim)
			hi := make([]int, dim)
			for k, d := range free {
				lo[d] = sub[k]
				hi[d] = sub[k]
			}
			lo[a] = 0
			hi[a] = nVertAxis[a] - 1
			pairs = append(pairs, [2]int{vertID(lo), vertID(hi)})
			if len(sub) == 0 || !incrementIndex(sub, bound) {
				break
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
