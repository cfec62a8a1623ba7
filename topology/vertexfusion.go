package topology

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// vertexFusion computes the representative vertex id for every vertex that
// participates in at least one identification pair (periodic wrap partners
// from the brick generator; none are emitted by the cubed-shell generator,
// which gets its identification for free from a shared embedding lattice).
// A union-find would give the same answer; gonum's
// graph/topo.ConnectedComponents computes the equivalence classes directly
// over a graph whose edges are the identification pairs, so the rest of the
// connectivity engine stays free of a hand-rolled union-find.
//
// pairs is identical on every rank (it depends only on the global mesh
// descriptors, not on any rank's partition), so every rank computes the
// same fusion map independently, with no communication.
type vertexFusionMap struct {
	rep map[int]int
}

func buildVertexFusion(pairs [][2]int) *vertexFusionMap {
	vf := &vertexFusionMap{rep: make(map[int]int)}
	if len(pairs) == 0 {
		return vf
	}

	g := simple.NewUndirectedGraph()
	for _, pr := range pairs {
		n1, n2 := simple.Node(pr[0]), simple.Node(pr[1])
		if g.Node(n1.ID()) == nil {
			g.AddNode(n1)
		}
		if g.Node(n2.ID()) == nil {
			g.AddNode(n2)
		}
		g.SetEdge(simple.Edge{F: n1, T: n2})
	}

	for _, comp := range topo.ConnectedComponents(g) {
		rep := comp[0].ID()
		for _, n := range comp {
			if n.ID() < rep {
				rep = n.ID()
			}
		}
		for _, n := range comp {
			vf.rep[int(n.ID())] = int(rep)
		}
	}
	return vf
}

// of returns the representative vertex id of v under the fusion map; v
// itself if it never appears in an identification pair.
func (vf *vertexFusionMap) of(v int) int {
	if r, ok := vf.rep[v]; ok {
		return r
	}
	return v
}
