package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexFusionNoPairsIsIdentity(t *testing.T) {
	vf := buildVertexFusion(nil)
	assert.Equal(t, 5, vf.of(5))
	assert.Equal(t, 0, vf.of(0))
}

func TestVertexFusionSimplePair(t *testing.T) {
	vf := buildVertexFusion([][2]int{{3, 7}})
	assert.Equal(t, vf.of(3), vf.of(7))
	assert.Equal(t, 3, vf.of(3))
	assert.Equal(t, 3, vf.of(7))
	assert.Equal(t, 9, vf.of(9), "untouched vertex maps to itself")
}

// A cube corner fuses 3 vertex ids transitively through 2 independent
// periodic-pair edges, the same shape buildVertexFusion sees from 3 distinct
// faces meeting at one lattice point.
func TestVertexFusionTransitiveChain(t *testing.T) {
	vf := buildVertexFusion([][2]int{{1, 2}, {2, 3}})
	rep := vf.of(1)
	assert.Equal(t, rep, vf.of(2))
	assert.Equal(t, rep, vf.of(3))
	assert.Equal(t, 1, rep, "representative is the minimum id in the component")
}

func TestVertexFusionDisjointComponents(t *testing.T) {
	vf := buildVertexFusion([][2]int{{10, 20}, {30, 40}})
	assert.Equal(t, vf.of(10), vf.of(20))
	assert.Equal(t, vf.of(30), vf.of(40))
	assert.NotEqual(t, vf.of(10), vf.of(30))
}
