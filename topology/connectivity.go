package topology

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/climesh/meshtopo/comm"
)

// faceCorners returns, for a dim-dimensional element, the corner indices
// (into a 2^dim-entry Cartesian-ordered corner list) belonging to face f.
// f = 2*a + b selects axis a and the low (b=0) or high (b=1) face of that
// axis; the returned indices are in ascending order, which is the same
// convention every element and every rank uses, so two elements whose faces
// are glued together enumerate their shared corners in directly comparable
// order before any relative-orientation permutation is applied.
func faceCorners(dim, f int) []int {
	a := f / 2
	want := f % 2
	n := 1 << dim
	out := make([]int, 0, n/2)
	for c := 0; c < n; c++ {
		if (c>>a)&1 == want {
			out = append(out, c)
		}
	}
	return out
}

// faceKey is a comparable, fixed-size canonical key for a face: the sorted
// fused vertex ids of its corners, as a fixed-size int array instead of a
// formatted string, since faces never have more than 4 corners here (dim <=
// 3) and an array key avoids string churn in the cross-rank exchange.
type faceKey [4]int

func makeFaceKey(ids []int) faceKey {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	var k faceKey
	for i := range k {
		k[i] = -1
	}
	copy(k[:], sorted)
	return k
}

type faceRecord struct {
	Key     faceKey
	Rank    int
	Elem    int // global element id (this rank's lm.globalElemID value)
	Face    int
	Corners []int // fused vertex ids in faceCorners(dim,f) order
}

type resolution struct {
	Elem        int
	Face        int
	Boundary    bool
	PeerRank    int
	PeerElem    int
	PeerFace    int
	PeerCorners []int
}

type envelope struct {
	Err         string
	Resolutions []resolution
}

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(b []byte, v interface{}) error {
	if len(b) == 0 {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}

// resolveFaces runs only on rank 0 (the coordinator of the rank-0-mediated
// gather/scatter pattern): it groups every rank's
// face records by key and, for each key, either finds the one boundary
// owner or the two matched peers. A key shared by more than two elements is
// a MeshInvariant.
func resolveFaces(records []faceRecord, size int) ([][]resolution, error) {
	groups := make(map[faceKey][]faceRecord)
	for _, r := range records {
		groups[r.Key] = append(groups[r.Key], r)
	}
	results := make([][]resolution, size)
	for key, grp := range groups {
		switch len(grp) {
		case 1:
			r := grp[0]
			results[r.Rank] = append(results[r.Rank], resolution{Elem: r.Elem, Face: r.Face, Boundary: true})
		case 2:
			a, b := grp[0], grp[1]
			results[a.Rank] = append(results[a.Rank], resolution{
				Elem: a.Elem, Face: a.Face,
				PeerRank: b.Rank, PeerElem: b.Elem, PeerFace: b.Face,
				PeerCorners: append([]int(nil), b.Corners...),
			})
			results[b.Rank] = append(results[b.Rank], resolution{
				Elem: b.Elem, Face: b.Face,
				PeerRank: a.Rank, PeerElem: a.Elem, PeerFace: a.Face,
				PeerCorners: append([]int(nil), a.Corners...),
			})
		default:
			return nil, newErr(MeshInvariant, "face key %v matched by %d elements, want 1 (boundary) or 2", key, len(grp))
		}
	}
	return results, nil
}

// matchFaces runs the cross-rank face-matching exchange entirely through
// comm.Communicator.AllToAllV, in two rounds: every rank ships its face
// records to rank 0 (gather), rank 0 resolves every key and ships each
// rank's resolutions back (scatter). This trades horizontal scalability
// (rank 0 does all the work) for determinism and for staying within a
// communicator port that only offers AllToAllV and Barrier -- see
// DESIGN.md.
func matchFaces(c comm.Communicator, myRecords []faceRecord) ([]resolution, error) {
	size := c.Size()
	rank := c.Rank()

	payload, err := gobEncode(myRecords)
	if err != nil {
		return nil, wrapErr(MeshInvariant, err, "encoding face records")
	}
	gather := make([][]byte, size)
	gather[0] = payload
	recv, err := c.AllToAllV(gather)
	if err != nil {
		return nil, wrapErr(MeshInvariant, err, "gathering face records")
	}

	var computeErr error
	resultsByRank := make([][]resolution, size)
	if rank == 0 {
		var all []faceRecord
		for src := 0; src < size; src++ {
			var recs []faceRecord
			if err := gobDecode(recv[src], &recs); err != nil {
				computeErr = wrapErr(MeshInvariant, err, "decoding face records from rank %d", src)
				break
			}
			all = append(all, recs...)
		}
		if computeErr == nil {
			resultsByRank, computeErr = resolveFaces(all, size)
		}
	}

	scatter := make([][]byte, size)
	if rank == 0 {
		errMsg := ""
		if computeErr != nil {
			errMsg = computeErr.Error()
		}
		for dst := 0; dst < size; dst++ {
			env := envelope{Err: errMsg}
			if computeErr == nil {
				env.Resolutions = resultsByRank[dst]
			}
			b, err := gobEncode(env)
			if err != nil {
				return nil, wrapErr(MeshInvariant, err, "encoding resolutions for rank %d", dst)
			}
			scatter[dst] = b
		}
	}
	recv2, err := c.AllToAllV(scatter)
	if err != nil {
		return nil, wrapErr(MeshInvariant, err, "scattering resolutions")
	}
	// recv2[src] is what rank src sent; only rank 0 sends in this round.
	var env envelope
	if err := gobDecode(recv2[0], &env); err != nil {
		return nil, wrapErr(MeshInvariant, err, "decoding resolutions")
	}
	if env.Err != "" {
		return nil, newErr(MeshInvariant, env.Err)
	}
	return env.Resolutions, nil
}

// computeOrientation classifies the permutation carrying peer's Cartesian
// face-corner enumeration into ours. Only codes {1,3} are
// ever valid: 1 for identity, 3 for a 2-corner face whose single coordinate
// is reversed. Any other discrepancy -- including any deviation at all on a
// 4-corner (3-D brick) face, which by construction never needs a
// permutation -- is a MeshInvariant: erroring rather than silently
// tolerating an unsupported code.
func computeOrientation(ours, peer []int) (int, error) {
	if len(ours) != len(peer) {
		return 0, newErr(MeshInvariant, "face corner count mismatch: %d vs %d", len(ours), len(peer))
	}
	identity := true
	for i := range ours {
		if ours[i] != peer[i] {
			identity = false
			break
		}
	}
	if identity {
		return 1, nil
	}
	if len(ours) == 2 && ours[0] == peer[1] && ours[1] == peer[0] {
		return 3, nil
	}
	return 0, newErr(MeshInvariant, "no valid orientation code for faces %v / %v", ours, peer)
}

type pendingGhost struct {
	e, f     int
	peerRank int
	peerElem int
	peerFace int
	code     int
}

// buildConnectivity is the connectivity engine: given this rank's
// partitioned slice of the global mesh, the global vertex fusion map, and
// the communicator, it produces a fully populated Topology.
func buildConnectivity(lm *localMesh, fuse *vertexFusionMap, c comm.Communicator) (*Topology, error) {
	dim := lm.dim
	nFaces := 2 * dim
	nReal := len(lm.elemToVert)

	globalToLocal := make(map[int]int, nReal)
	for e, gid := range lm.globalElemID {
		globalToLocal[gid] = e
	}

	records := make([]faceRecord, 0, nReal*nFaces)
	ourCorners := make([][][]int, nReal) // ourCorners[e][f]
	for e := 0; e < nReal; e++ {
		ourCorners[e] = make([][]int, nFaces)
		for f := 0; f < nFaces; f++ {
			idxs := faceCorners(dim, f)
			fused := make([]int, len(idxs))
			for i, ci := range idxs {
				fused[i] = fuse.of(lm.elemToVert[e][ci])
			}
			ourCorners[e][f] = fused
			records = append(records, faceRecord{
				Key:     makeFaceKey(fused),
				Rank:    c.Rank(),
				Elem:    lm.globalElemID[e],
				Face:    f,
				Corners: fused,
			})
		}
	}

	resolutions, err := matchFaces(c, records)
	if err != nil {
		return nil, err
	}
	byElemFace := make(map[[2]int]resolution, len(resolutions))
	for _, r := range resolutions {
		byElemFace[[2]int{r.Elem, r.Face}] = r
	}

	t := &Topology{
		Dim:         dim,
		Comm:        c,
		NReal:       nReal,
		ElemToCoord: lm.elemToCoord,
		ElemToElem:  make([][]int, nReal),
		ElemToFace:  make([][]int, nReal),
		ElemToOrdr:  make([][]int, nReal),
		ElemToBndy:  lm.elemToBndy,
	}
	for e := 0; e < nReal; e++ {
		t.ElemToElem[e] = make([]int, nFaces)
		t.ElemToFace[e] = make([]int, nFaces)
		t.ElemToOrdr[e] = make([]int, nFaces)
	}

	var pending []pendingGhost
	for e := 0; e < nReal; e++ {
		gid := lm.globalElemID[e]
		for f := 0; f < nFaces; f++ {
			res, ok := byElemFace[[2]int{gid, f}]
			if !ok {
				return nil, newErr(MeshInvariant, "no resolution for local element %d face %d", e, f)
			}
			if res.Boundary {
				if lm.elemToBndy[e][f] == 0 {
					return nil, newErr(MeshInvariant, "face (%d,%d) has no boundary tag and no neighbor", e, f)
				}
				t.ElemToElem[e][f] = e
				t.ElemToFace[e][f] = f
				t.ElemToOrdr[e][f] = 1
				continue
			}
			code, err := computeOrientation(ourCorners[e][f], res.PeerCorners)
			if err != nil {
				return nil, err
			}
			if res.PeerRank == c.Rank() {
				localIdx, ok := globalToLocal[res.PeerElem]
				if !ok {
					return nil, newErr(MeshInvariant, "dangling local neighbor id %d", res.PeerElem)
				}
				t.ElemToElem[e][f] = localIdx
				t.ElemToFace[e][f] = res.PeerFace
				t.ElemToOrdr[e][f] = code
				continue
			}
			pending = append(pending, pendingGhost{e: e, f: f, peerRank: res.PeerRank, peerElem: res.PeerElem, peerFace: res.PeerFace, code: code})
		}
	}

	assignGhostsAndSends(t, pending)
	return t, nil
}

// assignGhostsAndSends assigns ghost slots and builds send lists: ghost slots are grouped by
// ascending peer rank and, within a rank, by ascending peer global element
// id (which is exactly the peer's position in the global SFC order, since
// sfcPartition assigns global element ids in that order) -- giving
// ghostelems and nabrtorecv as contiguous sub-ranges with no sorting left
// implicit. sendelems is built as the dual: whichever local elements some
// neighbor's pending list referenced, grouped the same way.
func assignGhostsAndSends(t *Topology, pending []pendingGhost) {
	type ghostKey struct{ rank, elem int }
	seen := make(map[ghostKey]bool)
	var ghosts []ghostKey
	sendSet := make(map[int]map[int]bool) // rank -> set of local elem indices

	for _, p := range pending {
		gk := ghostKey{p.peerRank, p.peerElem}
		if !seen[gk] {
			seen[gk] = true
			ghosts = append(ghosts, gk)
		}
		if sendSet[p.peerRank] == nil {
			sendSet[p.peerRank] = make(map[int]bool)
		}
		sendSet[p.peerRank][p.e] = true
	}

	sort.Slice(ghosts, func(i, j int) bool {
		if ghosts[i].rank != ghosts[j].rank {
			return ghosts[i].rank < ghosts[j].rank
		}
		return ghosts[i].elem < ghosts[j].elem
	})

	ghostIndex := make(map[ghostKey]int, len(ghosts))
	nabrToRank := []int{}
	nabrToRecv := [][2]int{}
	lo := t.NReal
	i := 0
	for i < len(ghosts) {
		rank := ghosts[i].rank
		start := lo
		for i < len(ghosts) && ghosts[i].rank == rank {
			ghostIndex[ghosts[i]] = lo
			lo++
			i++
		}
		nabrToRank = append(nabrToRank, rank)
		nabrToRecv = append(nabrToRecv, [2]int{start, lo})
	}
	t.NGhost = lo - t.NReal
	t.NabrToRank = nabrToRank
	t.NabrToRecv = nabrToRecv

	for _, p := range pending {
		idx := ghostIndex[ghostKey{p.peerRank, p.peerElem}]
		t.ElemToElem[p.e][p.f] = idx
		t.ElemToFace[p.e][p.f] = p.peerFace
		t.ElemToOrdr[p.e][p.f] = p.code
	}

	var sendElems []int
	nabrToSend := make([][2]int, len(nabrToRank))
	offset := 0
	for n, rank := range nabrToRank {
		elems := make([]int, 0, len(sendSet[rank]))
		for e := range sendSet[rank] {
			elems = append(elems, e)
		}
		sort.Ints(elems)
		start := offset
		sendElems = append(sendElems, elems...)
		offset += len(elems)
		nabrToSend[n] = [2]int{start, offset}
	}
	t.SendElems = sendElems
	t.NabrToSend = nabrToSend
}
