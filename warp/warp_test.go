package warp_test

import (
	"errors"
	"math"
	"testing"

	"github.com/climesh/meshtopo/topology"
	"github.com/climesh/meshtopo/warp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSphereFaceCentersLandOnRadius(t *testing.T) {
	cases := [][3]float64{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	for _, c := range cases {
		x, y, z, err := warp.ToSphere(c[0], c[1], c[2])
		require.NoError(t, err)
		assert.True(t, warp.OnSphere(x, y, z, 1, 1e-12))
	}
}

func TestToSphereCornersAndInteriorLandOnRadius(t *testing.T) {
	corners := [][3]float64{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
		{1, 0.3, -0.7}, {0.1, 1, 0.9}, {-0.2, -0.4, 1},
	}
	for _, c := range corners {
		x, y, z, err := warp.ToSphere(c[0], c[1], c[2])
		require.NoError(t, err)
		assert.True(t, warp.OnSphere(x, y, z, 1, 1e-12))
	}
}

func TestToSphereScalesWithHalfSide(t *testing.T) {
	x, y, z, err := warp.ToSphere(2, 0.5, -1)
	require.NoError(t, err)
	assert.True(t, warp.OnSphere(x, y, z, 2, 1e-12))
}

func TestToSphereOriginIsInvalid(t *testing.T) {
	_, _, _, err := warp.ToSphere(0, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, topology.InvalidWarpInput))
}

func TestOnSphereToleranceBoundary(t *testing.T) {
	assert.True(t, warp.OnSphere(1, 0, 0, 1, 1e-9))
	assert.False(t, warp.OnSphere(1.1, 0, 0, 1, 1e-9))
}

func TestToSphereIsContinuousAtAnEdge(t *testing.T) {
	// A point exactly on the edge shared by the a=1 and b=1 faces should
	// warp to the same point regardless of which branch the tie in
	// math.Max resolves to first.
	x1, y1, z1, err := warp.ToSphere(1, 1, 0.4)
	require.NoError(t, err)
	assert.True(t, warp.OnSphere(x1, y1, z1, 1, 1e-9))
	assert.False(t, math.IsNaN(x1) || math.IsNaN(y1) || math.IsNaN(z1))
}
