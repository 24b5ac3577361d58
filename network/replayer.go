package network

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/btursunbayev/blocksim/common/types"
)

// Recorder receives propagation accounting. Injected per replay so the
// replayer itself stays stateless about metrics.
type Recorder interface {
	AddNetworkData(bytes int64)
	AddIORequests(n int64)
}

// Filter can veto delivery of a block to a node. A nil Filter delivers
// everywhere.
type Filter interface {
	ShouldPropagateTo(node types.NodeID, fromAttacker bool) bool
}

type hop struct {
	node     types.NodeID
	distance int
}

// Replayer disseminates blocks along precomputed breadth-first orders.
// One traversal per possible origin is computed at construction; every
// block replay is then a single O(nodes) pass yielding results identical
// to a per-block flood traversal.
type Replayer struct {
	topo   *Topology
	orders [][]hop
}

// NewReplayer precomputes the propagation order for every origin. The
// per-origin traversals are independent and draw no randomness, so they
// run in parallel.
func NewReplayer(topo *Topology) *Replayer {
	orders := make([][]hop, topo.Len())
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for origin := range orders {
		origin := origin
		eg.Go(func() error {
			orders[origin] = bfsOrder(topo, types.NodeID(origin))
			return nil
		})
	}
	// traversal goroutines never fail, Wait only joins them
	_ = eg.Wait()
	return &Replayer{topo: topo, orders: orders}
}

// bfsOrder walks the graph breadth-first from origin, discovering
// neighbors in neighbor-list order. The result covers exactly the nodes
// reachable from origin.
func bfsOrder(topo *Topology, origin types.NodeID) []hop {
	visited := make(map[types.NodeID]struct{}, topo.Len())
	order := make([]hop, 0, topo.Len())
	queue := []hop{{node: origin, distance: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, ok := visited[current.node]; ok {
			continue
		}
		visited[current.node] = struct{}{}
		order = append(order, current)
		for _, peer := range topo.Node(current.node).Neighbors {
			if _, ok := visited[peer]; !ok {
				queue = append(queue, hop{node: peer, distance: current.distance + 1})
			}
		}
	}
	return order
}

// Replay delivers the block along the origin's precomputed order. Nodes
// already holding the block are skipped; a filter veto skips delivery
// entirely. Every delivered node accounts blockSize bytes and one I/O
// operation per neighbor; zero-neighbor nodes contribute nothing but
// still hold the block.
func (r *Replayer) Replay(block types.Block, origin types.NodeID, fromAttacker bool, rec Recorder, filter Filter) {
	if int(origin) < 0 || int(origin) >= len(r.orders) {
		return
	}
	for _, h := range r.orders[origin] {
		node := r.topo.Node(h.node)
		if node.Holds(block.ID) {
			continue
		}
		if filter != nil && !filter.ShouldPropagateTo(node.ID, fromAttacker) {
			continue
		}
		node.markReceived(block.ID)
		if peers := len(node.Neighbors); peers > 0 {
			rec.AddNetworkData(int64(block.SizeBytes) * int64(peers))
			rec.AddIORequests(int64(peers))
		}
	}
}
