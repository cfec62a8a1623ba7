// Package warp implements the cubed-shell equiangular gnomonic projection:
// a pure function mapping a point on the surface of an
// axis-aligned cube to the sphere circumscribing it. It is orthogonal to
// the mesh topology core -- CubedShellTopology and StackedCubedSphereTopology
// never call it internally, leaving cube-surface coordinates in
// Topology.ElemToCoord for whichever downstream consumer (a spectral-element
// grid builder, for instance) wants an actual sphere.
package warp

import (
	"fmt"
	"math"

	"github.com/climesh/meshtopo/topology"
)

// ToSphere maps (a,b,c), a point on the surface of an axis-aligned cube of
// half-side R = max(|a|,|b|,|c|), to the sphere of radius R via the
// equiangular gnomonic projection of Ronchi, Iacono & Paolucci (1996). The
// dominant axis (the one at distance R from the origin) selects one of six
// cases; a point with no well defined dominant axis -- the origin, or a
// degenerate input -- fails with topology.InvalidWarpInput.
func ToSphere(a, b, c float64) (x, y, z float64, err error) {
	r := math.Max(math.Abs(a), math.Max(math.Abs(b), math.Abs(c)))
	if r == 0 {
		return 0, 0, 0, &topology.Error{Kind: topology.InvalidWarpInput, Msg: "origin has no dominant axis"}
	}
	switch {
	case math.Abs(a) == r:
		return sphereFace(sign(a), b/r, c/r, r, 0)
	case math.Abs(b) == r:
		return sphereFace(sign(b), a/r, c/r, r, 1)
	case math.Abs(c) == r:
		return sphereFace(sign(c), a/r, b/r, r, 2)
	default:
		return 0, 0, 0, &topology.Error{Kind: topology.InvalidWarpInput, Msg: fmt.Sprintf("point (%g,%g,%g) has no dominant axis", a, b, c)}
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// sphereFace computes the warped point for the dominant-axis face whose
// sign is s and whose two subordinate cube coordinates, each normalized to
// [-1,1], are xi and eta. axis names which of (x,y,z) is the dominant one:
// 0=x, 1=y, 2=z.
func sphereFace(s, xi, eta, r float64, axis int) (x, y, z float64, err error) {
	bigX := math.Tan(math.Pi * xi / 4)
	bigY := math.Tan(math.Pi * eta / 4)
	denom := math.Sqrt(bigX*bigX + bigY*bigY + 1)
	dominant := s * r / denom
	u := dominant * bigX
	v := dominant * bigY
	switch axis {
	case 0:
		return dominant, u, v, nil
	case 1:
		return u, dominant, v, nil
	default:
		return u, v, dominant, nil
	}
}

// OnSphere reports whether (x,y,z) lies on the sphere of radius r within
// tol -- a verification helper for the warp's round-trip property,
// promoted to an exported function rather than inlined into its callers.
func OnSphere(x, y, z, r, tol float64) bool {
	got := math.Sqrt(x*x + y*y + z*z)
	return math.Abs(got-r) <= tol
}
