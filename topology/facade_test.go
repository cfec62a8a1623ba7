package topology_test

import (
	"sync"
	"testing"

	"github.com/climesh/meshtopo/comm"
	"github.com/climesh/meshtopo/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleRank() comm.Communicator {
	return comm.NewLocalGroup(1)[0]
}

// S1: 1-D periodic brick, single rank.
func TestBrickTopology1DPeriodicSingleRank(t *testing.T) {
	axis := make([]float64, 11)
	for i := range axis {
		axis[i] = float64(i)
	}
	topo, err := topology.BrickTopology(singleRank(), [][]float64{axis}, topology.Periodicity(true))
	require.NoError(t, err)

	assert.Equal(t, 10, topo.NReal)
	assert.Equal(t, 0, topo.NGhost)
	assert.Empty(t, topo.SendElems)
	assert.Empty(t, topo.NabrToRank)

	for e := 0; e < 10; e++ {
		assert.Equal(t, float64(e), topo.ElemToCoord[e][0][0])
		assert.Equal(t, float64(e+1), topo.ElemToCoord[e][1][0])

		assert.Equal(t, (e+9)%10, topo.ElemToElem[e][0], "low neighbor of %d", e)
		assert.Equal(t, (e+1)%10, topo.ElemToElem[e][1], "high neighbor of %d", e)
		assert.Equal(t, 1, topo.ElemToFace[e][0])
		assert.Equal(t, 0, topo.ElemToFace[e][1])
		assert.Equal(t, 1, topo.ElemToOrdr[e][0])
		assert.Equal(t, 1, topo.ElemToOrdr[e][1])
		assert.Equal(t, 0, topo.ElemToBndy[e][0])
		assert.Equal(t, 0, topo.ElemToBndy[e][1])
	}
}

// S2: 2-D brick periodic in y, single rank -- checked by invariant rather
// than by a hardcoded adjacency table.
func TestBrickTopology2DPeriodicInY(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{5, 6, 7, 8, 9}
	topo, err := topology.BrickTopology(singleRank(), [][]float64{x, y}, topology.Periodicity(false, true))
	require.NoError(t, err)

	assert.Equal(t, 16, topo.NReal)
	assertSelfConsistent(t, topo)

	xTagged := 0
	for e := 0; e < topo.NReal; e++ {
		// axis 1 (y) is periodic: never tagged, always identity orientation.
		assert.Equal(t, 0, topo.ElemToBndy[e][2])
		assert.Equal(t, 0, topo.ElemToBndy[e][3])
		assert.Equal(t, 1, topo.ElemToOrdr[e][2])
		assert.Equal(t, 1, topo.ElemToOrdr[e][3])
		// axis 0 (x) is not periodic: only the two extremal columns carry
		// the default boundary tag 1, every other face is an interior
		// connection with identity orientation.
		for f := 0; f < 2; f++ {
			assert.Equal(t, 1, topo.ElemToOrdr[e][f])
			if topo.ElemToBndy[e][f] != 0 {
				assert.Equal(t, 1, topo.ElemToBndy[e][f])
				xTagged++
			}
		}
	}
	assert.Equal(t, 8, xTagged, "4 elements on each of the 2 non-periodic x extremes")
}

// S3: stacked 2-D brick: horizontal axis non-periodic with boundary tags
// 1 (low) / 2 (high); vertical axis periodic (its tags are therefore never
// applied).
func TestStackedBrickTopology(t *testing.T) {
	x := []float64{2, 3, 4, 5}
	stack := []float64{4, 5, 6}
	topo, err := topology.StackedBrickTopology(singleRank(), [][]float64{x}, stack,
		topology.Periodicity(false, true),
		topology.Boundary([][2]int{{1, 2}, {3, 4}}),
	)
	require.NoError(t, err)

	assert.Equal(t, 6, topo.NReal)
	assert.Equal(t, 2, topo.StackSize)
	assertSelfConsistent(t, topo)

	lowTagged, highTagged := 0, 0
	for e := 0; e < topo.NReal; e++ {
		// horizontal faces: 0 = x-low, 1 = x-high
		if topo.ElemToBndy[e][0] != 0 {
			assert.Equal(t, 1, topo.ElemToBndy[e][0])
			lowTagged++
		}
		if topo.ElemToBndy[e][1] != 0 {
			assert.Equal(t, 2, topo.ElemToBndy[e][1])
			highTagged++
		}
		// vertical faces: 2 = bottom, 3 = top -- periodic, never tagged
		assert.Equal(t, 0, topo.ElemToBndy[e][2])
		assert.Equal(t, 0, topo.ElemToBndy[e][3])
	}
	assert.Equal(t, 2, lowTagged)
	assert.Equal(t, 2, highTagged)

	// Stack contiguity: each column's stacksize elements are
	// consecutive local indices.
	for col := 0; col < 3; col++ {
		lo := col * topo.StackSize
		for j := 0; j < topo.StackSize; j++ {
			e := lo + j
			if j > 0 {
				assert.Equal(t, e-1, topo.ElemToElem[e][2])
			}
			if j < topo.StackSize-1 {
				assert.Equal(t, e+1, topo.ElemToElem[e][3])
			}
		}
	}
}

// S4: cubed shell Ne=2, single rank.
func TestCubedShellTopology(t *testing.T) {
	topo, err := topology.CubedShellTopology(singleRank(), 2)
	require.NoError(t, err)

	assert.Equal(t, 24, topo.NReal)
	assertSelfConsistent(t, topo)

	corners := make(map[[3]float64]map[int]bool)
	for e := 0; e < topo.NReal; e++ {
		connected := 0
		for f := 0; f < topo.NFaces(); f++ {
			assert.Equal(t, 0, topo.ElemToBndy[e][f])
			if topo.ElemToElem[e][f] != e {
				connected++
			}
		}
		assert.Equal(t, 4, connected, "element %d should have 4 connected faces", e)
		for _, c := range topo.ElemToCoord[e] {
			if corners[c] == nil {
				corners[c] = make(map[int]bool)
			}
			corners[c][e] = true
		}
	}
	cubeCorners := 0
	for _, owners := range corners {
		if len(owners) == 3 {
			cubeCorners++
		}
	}
	assert.Equal(t, 8, cubeCorners, "a cube has 8 corners, each shared by exactly 3 patches")
}

// S5: stacked cubed sphere Nhorz=2, Rrange=[1,2,3].
func TestStackedCubedSphereTopology(t *testing.T) {
	topo, err := topology.StackedCubedSphereTopology(singleRank(), 2, []float64{1, 2, 3}, topology.BC(7, 9))
	require.NoError(t, err)

	assert.Equal(t, 48, topo.NReal)
	assert.Equal(t, 2, topo.StackSize)
	assertSelfConsistent(t, topo)

	vb, vt := 4, 5
	for e := 0; e < topo.NReal; e++ {
		assert.Equal(t, 1, topo.ElemToOrdr[e][vb])
		assert.Equal(t, 1, topo.ElemToOrdr[e][vt])
	}
	innermostTags, outermostTags := 0, 0
	for e := 0; e < topo.NReal; e++ {
		if topo.ElemToBndy[e][vb] != 0 {
			assert.Equal(t, 7, topo.ElemToBndy[e][vb])
			innermostTags++
		}
		if topo.ElemToBndy[e][vt] != 0 {
			assert.Equal(t, 9, topo.ElemToBndy[e][vt])
			outermostTags++
		}
	}
	assert.Equal(t, 24, innermostTags)
	assert.Equal(t, 24, outermostTags)
}

// S6: 2-rank brick (0:8,): each rank holds 4 real elements with exactly one
// ghost and one neighbor.
func TestBrickTopologyTwoRanks(t *testing.T) {
	axis := make([]float64, 9)
	for i := range axis {
		axis[i] = float64(i)
	}
	comms := comm.NewLocalGroup(2)

	results := make([]*topology.Topology, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r], errs[r] = topology.BrickTopology(comms[r], [][]float64{axis})
		}(r)
	}
	wg.Wait()

	for r := 0; r < 2; r++ {
		require.NoError(t, errs[r])
		topo := results[r]
		assert.Equal(t, 4, topo.NReal)
		assert.Equal(t, 1, topo.NGhost)
		require.Len(t, topo.NabrToRank, 1)
		assert.Equal(t, 1-r, topo.NabrToRank[0])
		require.Len(t, topo.SendElems, 1)
		assert.Equal(t, [2]int{0, 1}, topo.NabrToSend[0])
		assert.Equal(t, [2]int{4, 5}, topo.NabrToRecv[0])
	}
}

func assertSelfConsistent(t *testing.T, topo *topology.Topology) {
	t.Helper()
	for e := 0; e < topo.NReal; e++ {
		for f := 0; f < topo.NFaces(); f++ {
			if topo.ElemToBndy[e][f] != 0 {
				assert.Equal(t, e, topo.ElemToElem[e][f])
				assert.Equal(t, f, topo.ElemToFace[e][f])
				assert.Equal(t, 1, topo.ElemToOrdr[e][f])
				continue
			}
			nbr := topo.ElemToElem[e][f]
			nbrFace := topo.ElemToFace[e][f]
			if !topo.IsReal(nbr) {
				continue // reciprocity across a ghost only holds once that rank's own topology is checked too
			}
			assert.Equal(t, e, topo.ElemToElem[nbr][nbrFace], "reciprocity at elem %d face %d", e, f)
			assert.Equal(t, f, topo.ElemToFace[nbr][nbrFace])
		}
	}
}
