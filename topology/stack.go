package topology

// ExtrudeMode selects how the stack extruder derives a new level's
// corner coordinates from the base element's.
type ExtrudeMode int

const (
	// ExtrudeLinear appends stack[j] as a new coordinate axis -- the
	// StackedBrickTopology case.
	ExtrudeLinear ExtrudeMode = iota
	// ExtrudeRadial scales the base element's existing 3 coordinates by
	// stack[j] -- the StackedCubedSphereTopology case, where the base
	// topology is already embedded in 3-D and stacking multiplies radii
	// into it rather than adding an axis.
	ExtrudeRadial
)

// stackExtrude lifts a (d-1)-D base topology into a d-D stacked topology.
// stack has length stacksize+1 and must be strictly monotonic;
// periodic wraps the new vertical axis in the same column (bricks only --
// callers never pass periodic=true for a sphere); boundary gives the
// bottom/top tags used when it is not periodic.
//
// Because an entire column always lives on one rank (the partitioner never
// splits a column), vertical connectivity is always within-rank: no new
// ghost element is ever created by this stage. Every existing base ghost
// column is still needed at every level, so ghost/send ranges are scaled by
// stacksize rather than recomputed.
func stackExtrude(base *Topology, stack []float64, mode ExtrudeMode, periodic bool, boundary [2]int) (*Topology, error) {
	if len(stack) < 2 {
		return nil, newErr(InvalidShape, "stack must have at least 2 levels, got %d", len(stack))
	}
	increasing := stack[1] > stack[0]
	for k := 1; k < len(stack); k++ {
		if (increasing && stack[k] <= stack[k-1]) || (!increasing && stack[k] >= stack[k-1]) {
			return nil, newErr(InvalidShape, "stack must be strictly monotonic")
		}
	}

	stacksize := len(stack) - 1
	baseDim := base.Dim
	newDim := baseDim + 1
	nFacesNew := 2 * newDim
	vb, vt := 2*baseDim, 2*baseDim+1
	nCornerBase := 1 << baseDim

	newNReal := base.NReal * stacksize
	newNGhost := base.NGhost * stacksize

	liftIndex := func(baseIdx, j int) int {
		if baseIdx < base.NReal {
			return baseIdx*stacksize + j
		}
		return newNReal + (baseIdx-base.NReal)*stacksize + j
	}

	t := &Topology{
		Dim:         newDim,
		Comm:        base.Comm,
		NReal:       newNReal,
		NGhost:      newNGhost,
		StackSize:   stacksize,
		ElemToCoord: make([][][3]float64, newNReal),
		ElemToElem:  make([][]int, newNReal),
		ElemToFace:  make([][]int, newNReal),
		ElemToOrdr:  make([][]int, newNReal),
		ElemToBndy:  make([][]int, newNReal),
	}

	for i := 0; i < base.NReal; i++ {
		for f := 0; f < 2*baseDim; f++ {
			if mode == ExtrudeLinear && base.ElemToBndy[i][f] == 0 && base.ElemToOrdr[i][f] != 1 {
				return nil, newErr(MeshInvariant, "stacked brick: base orientation %d at element %d face %d is not identity", base.ElemToOrdr[i][f], i, f)
			}
		}
		for j := 0; j < stacksize; j++ {
			e := liftIndex(i, j)

			coords := make([][3]float64, 2*nCornerBase)
			for c := 0; c < nCornerBase; c++ {
				lower := base.ElemToCoord[i][c]
				upper := base.ElemToCoord[i][c]
				switch mode {
				case ExtrudeLinear:
					lower[baseDim] = stack[j]
					upper[baseDim] = stack[j+1]
				case ExtrudeRadial:
					for a := 0; a < 3; a++ {
						lower[a] *= stack[j]
						upper[a] *= stack[j+1]
					}
				}
				coords[c] = lower
				coords[nCornerBase+c] = upper
			}
			t.ElemToCoord[e] = coords

			t.ElemToElem[e] = make([]int, nFacesNew)
			t.ElemToFace[e] = make([]int, nFacesNew)
			t.ElemToOrdr[e] = make([]int, nFacesNew)
			t.ElemToBndy[e] = make([]int, nFacesNew)

			for f := 0; f < 2*baseDim; f++ {
				if base.ElemToBndy[i][f] != 0 {
					t.ElemToElem[e][f] = e
					t.ElemToFace[e][f] = f
					t.ElemToOrdr[e][f] = 1
					t.ElemToBndy[e][f] = base.ElemToBndy[i][f]
					continue
				}
				t.ElemToElem[e][f] = liftIndex(base.ElemToElem[i][f], j)
				t.ElemToFace[e][f] = base.ElemToFace[i][f]
				t.ElemToOrdr[e][f] = base.ElemToOrdr[i][f]
			}

			switch {
			case j > 0:
				t.ElemToElem[e][vb] = liftIndex(i, j-1)
				t.ElemToFace[e][vb] = vt
				t.ElemToOrdr[e][vb] = 1
			case periodic:
				t.ElemToElem[e][vb] = liftIndex(i, stacksize-1)
				t.ElemToFace[e][vb] = vt
				t.ElemToOrdr[e][vb] = 1
			default:
				t.ElemToElem[e][vb] = e
				t.ElemToFace[e][vb] = vb
				t.ElemToOrdr[e][vb] = 1
				t.ElemToBndy[e][vb] = boundary[0]
			}

			switch {
			case j < stacksize-1:
				t.ElemToElem[e][vt] = liftIndex(i, j+1)
				t.ElemToFace[e][vt] = vb
				t.ElemToOrdr[e][vt] = 1
			case periodic:
				t.ElemToElem[e][vt] = liftIndex(i, 0)
				t.ElemToFace[e][vt] = vb
				t.ElemToOrdr[e][vt] = 1
			default:
				t.ElemToElem[e][vt] = e
				t.ElemToFace[e][vt] = vt
				t.ElemToOrdr[e][vt] = 1
				t.ElemToBndy[e][vt] = boundary[1]
			}
		}
	}

	t.NabrToRank = append([]int(nil), base.NabrToRank...)
	t.NabrToRecv = make([][2]int, len(base.NabrToRecv))
	for n, rng := range base.NabrToRecv {
		lo0, hi0 := rng[0]-base.NReal, rng[1]-base.NReal
		t.NabrToRecv[n] = [2]int{newNReal + lo0*stacksize, newNReal + hi0*stacksize}
	}
	t.NabrToSend = make([][2]int, len(base.NabrToSend))
	for n, rng := range base.NabrToSend {
		t.NabrToSend[n] = [2]int{rng[0] * stacksize, rng[1] * stacksize}
	}
	sendElems := make([]int, 0, len(base.SendElems)*stacksize)
	for _, i := range base.SendElems {
		for j := 0; j < stacksize; j++ {
			sendElems = append(sendElems, liftIndex(i, j))
		}
	}
	t.SendElems = sendElems

	return t, nil
}
