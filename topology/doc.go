// Package topology builds and represents, for one rank of a distributed
// computation, a partitioned unstructured hex/quad element mesh with ghost
// layers, neighbor-communication descriptors, and face-to-face connectivity
// between elements.
//
// Four constructors are exposed: BrickTopology, StackedBrickTopology,
// CubedShellTopology, and StackedCubedSphereTopology. All four share one
// connectivity engine (see connectivity.go) and produce an immutable
// Topology value; there is no supported way to mutate a Topology once
// construction returns.
//
// Construction is a collective operation across every rank of the supplied
// comm.Communicator: every rank must call the same constructor with the same
// global parameters. The core never touches a network or process directly —
// it only uses comm.Communicator, so a host program can swap in any
// transport that satisfies that port.
package topology
