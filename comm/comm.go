// Package comm defines the message-passing port consumed by the mesh
// topology core. It deliberately knows nothing about any specific wire
// protocol or transport; production hosts wire a real MPI-like binding in,
// while tests and single-process callers use Local.
package comm

import "fmt"

// Communicator is the thin port the topology core needs from a message
// passing layer: identity within the group, and the two collectives used
// during construction (AllToAllV for face matching, Barrier for ordering
// the pieces of a collective construction that have no data dependency).
//
// Implementations MUST agree, across every rank of a given Communicator,
// on Size(); Rank() must return a unique value in [0, Size()) on each rank.
type Communicator interface {
	// Rank returns this process's rank in the group, 0 <= Rank() < Size().
	Rank() int
	// Size returns the number of ranks in the group.
	Size() int
	// AllToAllV exchanges variable-length byte payloads: send[r] is the
	// payload destined for rank r (possibly empty, possibly this rank's own
	// rank). It returns recv such that recv[r] is what rank r sent to this
	// rank. len(send) and the returned len(recv) both equal Size().
	AllToAllV(send [][]byte) ([][]byte, error)
	// Barrier blocks until every rank in the group has called Barrier.
	Barrier() error
}

// RankOutOfRange reports an AllToAllV call whose send slice did not match
// the communicator's Size(), the way a malformed MPI call would fail at
// the binding layer rather than silently truncating.
type RankOutOfRange struct {
	Got, Want int
}

func (e RankOutOfRange) Error() string {
	return fmt.Sprintf("comm: send slice has %d entries, want %d (communicator size)", e.Got, e.Want)
}
