package topology

// Connectivity names the connectivity variant a constructor should build.
// Only ConnectivityFace is implemented; it exists as a type (rather than a
// bare string) so callers get a compile error instead of a silent typo.
type Connectivity string

// ConnectivityFace is the only recognized Connectivity value.
const ConnectivityFace Connectivity = "face"

// config collects every recognized keyword option a constructor accepts.
// Unset fields take the defaults below; Option funcs populate it.
type config struct {
	periodicity  []bool
	boundary     [][2]int
	connectivity Connectivity
	ghostsize    int
	bc           [2]int
	bcSet        bool
}

func defaultConfig(dim int) *config {
	boundary := make([][2]int, dim)
	for d := range boundary {
		boundary[d] = [2]int{1, 1}
	}
	return &config{
		periodicity:  make([]bool, dim),
		boundary:     boundary,
		connectivity: ConnectivityFace,
		ghostsize:    1,
		bc:           [2]int{1, 1},
	}
}

// Option configures a topology constructor: Periodicity, Boundary,
// WithConnectivity, GhostSize, and BC (stacked sphere only).
type Option func(*config)

// Periodicity marks axis d (0-based) as periodic when wrap[d] is true.
// len(wrap) must equal the topology's logical dimension (or d-1 for the
// horizontal axes of a stacked topology, plus the stacked axis itself for
// StackedBrickTopology).
func Periodicity(wrap ...bool) Option {
	return func(c *config) {
		c.periodicity = append([]bool(nil), wrap...)
	}
}

// Boundary sets the boundary tag table, boundary[d] = [low, high] for axis
// d. Tags must be nonzero; 0 is reserved to mean "connected to another
// element".
func Boundary(boundary [][2]int) Option {
	return func(c *config) {
		c.boundary = boundary
	}
}

// WithConnectivity selects the connectivity variant. Only ConnectivityFace
// is recognized; any other value fails construction with Unsupported.
func WithConnectivity(kind Connectivity) Option {
	return func(c *config) { c.connectivity = kind }
}

// GhostSize sets the ghost layer depth. Only 1 is recognized; any other
// value fails construction with Unsupported.
func GhostSize(n int) Option {
	return func(c *config) { c.ghostsize = n }
}

// BC sets the inner/outer radial boundary tags for StackedCubedSphereTopology.
// It has no effect on the other three constructors.
func BC(inner, outer int) Option {
	return func(c *config) {
		c.bc = [2]int{inner, outer}
		c.bcSet = true
	}
}

func (c *config) validate() error {
	if c.connectivity != ConnectivityFace {
		return newErr(Unsupported, "connectivity %q not recognized, only %q is supported", c.connectivity, ConnectivityFace)
	}
	if c.ghostsize != 1 {
		return newErr(Unsupported, "ghostsize %d not recognized, only 1 is supported", c.ghostsize)
	}
	return nil
}
