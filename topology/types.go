package topology

import (
	"fmt"
	"strings"

	"github.com/climesh/meshtopo/comm"
)

// Topology is one rank's immutable view of a partitioned mesh. Every field
// is populated once by a constructor and never mutated afterward.
type Topology struct {
	Dim  int
	Comm comm.Communicator

	NReal  int
	NGhost int

	// ElemToCoord[e][corner] holds the 3 embedding coordinates of corner
	// (0-based, Cartesian order) of local element e. Rows beyond Dim are
	// defined (zero) but carry no meaning.
	ElemToCoord [][][3]float64

	// ElemToElem/ElemToFace/ElemToOrdr/ElemToBndy are sized NReal x 2*Dim;
	// ghost elements are leaves and never need their own face tables
	// locally. Face f (0-based): axis a = f/2, low face when f is even.
	ElemToElem [][]int
	ElemToFace [][]int
	ElemToOrdr [][]int
	ElemToBndy [][]int

	// SendElems holds local real element indices to ship to neighbors,
	// grouped by neighbor rank in NabrToRank order.
	SendElems []int

	// NabrToRank lists neighbor ranks in ascending order. NabrToRecv[n] and
	// NabrToSend[n] are half-open [lo,hi) ranges: NabrToRecv[n] indexes into
	// the ghost range nreal..nreal+nghost, NabrToSend[n] indexes into
	// SendElems.
	NabrToRank []int
	NabrToRecv [][2]int
	NabrToSend [][2]int

	// StackSize is nonzero only for StackedBrickTopology / StackedCubedSphereTopology:
	// the number of elements per vertical column.
	StackSize int
}

// NFaces returns the number of faces per element, 2*Dim.
func (t *Topology) NFaces() int { return 2 * t.Dim }

// NElems returns the total local element count, real plus ghost.
func (t *Topology) NElems() int { return t.NReal + t.NGhost }

// IsReal reports whether local element index e (0-based) is a real element.
func (t *Topology) IsReal(e int) bool { return e < t.NReal }

// Stats is a read-only diagnostic snapshot of a Topology's layout.
type Stats struct {
	Rank       int
	Size       int
	NReal      int
	NGhost     int
	NSend      int
	NNeighbors int
	NBoundary  int // count of (e,f) pairs with ElemToBndy != 0
}

// Stats computes a Stats snapshot of the topology on this rank.
func (t *Topology) Stats() Stats {
	s := Stats{
		Rank:       t.Comm.Rank(),
		Size:       t.Comm.Size(),
		NReal:      t.NReal,
		NGhost:     t.NGhost,
		NSend:      len(t.SendElems),
		NNeighbors: len(t.NabrToRank),
	}
	for e := 0; e < t.NReal; e++ {
		for f := 0; f < t.NFaces(); f++ {
			if t.ElemToBndy[e][f] != 0 {
				s.NBoundary++
			}
		}
	}
	return s
}

// String returns a one-line human-readable summary of the topology.
func (t *Topology) String() string {
	var sb strings.Builder
	s := t.Stats()
	sb.WriteString(fmt.Sprintf("Topology{dim=%d rank=%d/%d real=%d ghost=%d send=%d neighbors=%d boundaryFaces=%d}",
		t.Dim, s.Rank, s.Size, s.NReal, s.NGhost, s.NSend, s.NNeighbors, s.NBoundary))
	if t.StackSize > 0 {
		sb.WriteString(fmt.Sprintf(" stacksize=%d", t.StackSize))
	}
	return sb.String()
}

// globalMesh is the output of a generator (B/C) and the input of the SFC
// partitioner (D), which slices it into a localMesh: the complete global
// mesh, keyed by global vertex ids, not yet connected across faces. It is an
// internal type: generators and the SFC partitioner exchange it, but it
// never escapes to a Topology consumer.
type globalMesh struct {
	dim int

	// elemToVert[e] holds 2^dim global vertex ids in Cartesian order.
	elemToVert [][]int
	// elemToCoord[e] holds the embedding coordinates of each corner,
	// parallel to elemToVert[e].
	elemToCoord [][][3]float64
	// elemToBndy[e][f] is the boundary tag for face f of element e (0 if
	// connected to another element -- determined later by the connectivity
	// engine, this is the *generator's* boundary tag, nonzero only on a
	// true physical boundary face).
	elemToBndy [][]int

	// faceConnections lists pairs of global vertex ids that must be treated
	// as identical by the connectivity engine's vertex fusion step
	// (periodic wrap partners; the cubed-shell generator emits none).
	faceConnections [][2]int

	// globalID[e] is this element's position in the *original* generation
	// order. sfcPartition does not carry it into the localMesh, whose
	// globalElemID is the SFC position instead.
	globalID []int
}

// nElemsGlobal returns the total element count across the whole globalMesh.
func (g *globalMesh) nElemsGlobal() int { return len(g.elemToVert) }
