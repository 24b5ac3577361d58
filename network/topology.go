// Package network models the peer graph and block dissemination. The
// topology is fixed for the whole run, which is what allows propagation
// to be precomputed once and replayed per block in linear time.
package network

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/btursunbayev/blocksim/common/types"
)

// ErrDegenerateTopology is returned when the requested number of
// distinct neighbors cannot be sampled from the node set.
var ErrDegenerateTopology = errors.New("degenerate topology")

// Node is a network participant. Neighbors are fixed once the topology
// is built; the received set only grows.
type Node struct {
	ID        types.NodeID
	Neighbors []types.NodeID

	received map[types.BlockID]struct{}
}

func newNode(id types.NodeID, neighbors []types.NodeID) *Node {
	return &Node{
		ID:        id,
		Neighbors: neighbors,
		received:  map[types.BlockID]struct{}{},
	}
}

// Holds reports whether the node has received the block.
func (n *Node) Holds(id types.BlockID) bool {
	_, ok := n.received[id]
	return ok
}

func (n *Node) markReceived(id types.BlockID) {
	n.received[id] = struct{}{}
}

// Topology is the fixed graph of nodes and their neighbor sets.
type Topology struct {
	nodes []*Node
}

// NewTopology samples a topology of n nodes, each with neighbors
// distinct non-self peers. Draws come from rng in ascending node order,
// so a seeded rng reproduces the same graph.
func NewTopology(n, neighbors int, rng *rand.Rand) (*Topology, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d nodes", ErrDegenerateTopology, n)
	}
	if neighbors < 0 || neighbors >= n {
		return nil, fmt.Errorf("%w: %d distinct neighbors from %d nodes", ErrDegenerateTopology, neighbors, n)
	}
	topo := &Topology{nodes: make([]*Node, n)}
	for id := 0; id < n; id++ {
		picked := make(map[int]struct{}, neighbors)
		peers := make([]types.NodeID, 0, neighbors)
		for len(peers) < neighbors {
			peer := rng.Intn(n)
			if peer == id {
				continue
			}
			if _, ok := picked[peer]; ok {
				continue
			}
			picked[peer] = struct{}{}
			peers = append(peers, types.NodeID(peer))
		}
		topo.nodes[id] = newNode(types.NodeID(id), peers)
	}
	return topo, nil
}

// Len returns the number of nodes.
func (t *Topology) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id.
func (t *Topology) Node(id types.NodeID) *Node {
	return t.nodes[id]
}

// Nodes returns all nodes in id order.
func (t *Topology) Nodes() []*Node {
	return t.nodes
}
