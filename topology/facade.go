package topology

import "github.com/climesh/meshtopo/comm"

// BrickTopology constructs a dim-dimensional axis-aligned brick
// where dim = len(elemRange). Each elemRange[d] is the ordered sequence of
// element-corner coordinates along axis d.
func BrickTopology(c comm.Communicator, elemRange [][]float64, opts ...Option) (*Topology, error) {
	dim := len(elemRange)
	if dim < 1 || dim > 3 {
		return nil, newErr(InvalidShape, "BrickTopology dim must be 1, 2 or 3, got %d", dim)
	}
	cfg := defaultConfig(dim)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.periodicity) != dim {
		return nil, newErr(InvalidShape, "periodicity has %d entries, want %d", len(cfg.periodicity), dim)
	}
	if len(cfg.boundary) != dim {
		return nil, newErr(InvalidShape, "boundary has %d rows, want %d", len(cfg.boundary), dim)
	}

	g, err := brickGenerate(elemRange, cfg.periodicity, cfg.boundary)
	if err != nil {
		return nil, err
	}
	return assemble(c, g)
}

// StackedBrickTopology extrudes a (dim-1)-dimensional brick of len(elemRange)
// horizontal axes along stack, a strictly monotonic sequence of extrusion
// coordinates of length stacksize+1. periodicity's last entry
// governs the vertical axis; boundary's last row gives the vertical
// bottom/top tags.
func StackedBrickTopology(c comm.Communicator, elemRange [][]float64, stack []float64, opts ...Option) (*Topology, error) {
	baseDim := len(elemRange)
	if baseDim < 1 {
		// dim = baseDim+1 would be <= 1, an invalid topology dimension.
		return nil, newErr(InvalidShape, "StackedBrickTopology requires at least 1 horizontal axis")
	}
	dim := baseDim + 1
	cfg := defaultConfig(dim)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.periodicity) != dim {
		return nil, newErr(InvalidShape, "periodicity has %d entries, want %d", len(cfg.periodicity), dim)
	}
	if len(cfg.boundary) != dim {
		return nil, newErr(InvalidShape, "boundary has %d rows, want %d", len(cfg.boundary), dim)
	}

	base, err := BrickTopology(c, elemRange, WithConnectivity(cfg.connectivity), GhostSize(cfg.ghostsize),
		Periodicity(cfg.periodicity[:baseDim]...), Boundary(cfg.boundary[:baseDim]))
	if err != nil {
		return nil, err
	}
	return stackExtrude(base, stack, ExtrudeLinear, cfg.periodicity[baseDim], cfg.boundary[baseDim])
}

// CubedShellTopology constructs the six-patch logically 2-D cubed-shell
// mesh with ne elements along each patch edge.
func CubedShellTopology(c comm.Communicator, ne int, opts ...Option) (*Topology, error) {
	cfg := defaultConfig(2)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	g, err := cubedShellGenerate(ne)
	if err != nil {
		return nil, err
	}
	return assemble(c, g)
}

// StackedCubedSphereTopology extrudes a cubed shell of nHorz elements per
// patch edge radially into len(rRange)-1 shells, rRange a strictly
// monotonic sequence of radii. Vertical periodicity is never valid for a
// sphere. bc (via the BC option) gives the inner/outer radial boundary
// tags; the default is (1,1).
func StackedCubedSphereTopology(c comm.Communicator, nHorz int, rRange []float64, opts ...Option) (*Topology, error) {
	const dim = 3
	cfg := defaultConfig(dim)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.periodicity) > dim-1 {
		for _, p := range cfg.periodicity[dim-1:] {
			if p {
				return nil, newErr(Unsupported, "StackedCubedSphereTopology does not support vertical periodicity")
			}
		}
	}

	base, err := CubedShellTopology(c, nHorz, WithConnectivity(cfg.connectivity), GhostSize(cfg.ghostsize))
	if err != nil {
		return nil, err
	}
	return stackExtrude(base, rRange, ExtrudeRadial, false, cfg.bc)
}

// assemble runs the shared partitioning/fusion/connectivity pipeline
// common to both flat topology constructors.
func assemble(c comm.Communicator, g *globalMesh) (*Topology, error) {
	lm, err := sfcPartition(g, c)
	if err != nil {
		return nil, err
	}
	fuse := buildVertexFusion(g.faceConnections)
	return buildConnectivity(lm, fuse, c)
}
