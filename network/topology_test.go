package network

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/common/types"
)

func TestNewTopologyNeighborInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	topo, err := NewTopology(20, 4, rng)
	require.NoError(t, err)
	require.Equal(t, 20, topo.Len())

	for _, node := range topo.Nodes() {
		require.Len(t, node.Neighbors, 4)
		seen := map[types.NodeID]struct{}{}
		for _, peer := range node.Neighbors {
			require.NotEqual(t, node.ID, peer, "self-neighboring forbidden")
			_, dup := seen[peer]
			require.False(t, dup, "neighbors must be distinct")
			seen[peer] = struct{}{}
		}
	}
}

func TestNewTopologyDeterministic(t *testing.T) {
	a, err := NewTopology(15, 3, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := NewTopology(15, 3, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	for i := range a.Nodes() {
		require.Equal(t, a.Nodes()[i].Neighbors, b.Nodes()[i].Neighbors)
	}
}

func TestNewTopologyDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, tc := range []struct {
		nodes     int
		neighbors int
	}{
		{nodes: 0, neighbors: 0},
		{nodes: -1, neighbors: 0},
		{nodes: 3, neighbors: 3},
		{nodes: 3, neighbors: 5},
		{nodes: 3, neighbors: -1},
	} {
		_, err := NewTopology(tc.nodes, tc.neighbors, rng)
		require.ErrorIs(t, err, ErrDegenerateTopology, "nodes=%d neighbors=%d", tc.nodes, tc.neighbors)
	}
}

// line builds the path graph 0 - 1 - ... - n-1 with undirected adjacency.
func line(n int) *Topology {
	topo := &Topology{}
	for i := 0; i < n; i++ {
		var peers []types.NodeID
		if i > 0 {
			peers = append(peers, types.NodeID(i-1))
		}
		if i < n-1 {
			peers = append(peers, types.NodeID(i+1))
		}
		topo.nodes = append(topo.nodes, newNode(types.NodeID(i), peers))
	}
	return topo
}

func TestBFSOrderOnLine(t *testing.T) {
	topo := line(4)
	order := bfsOrder(topo, 1)
	require.Equal(t, []hop{
		{node: 1, distance: 0},
		{node: 0, distance: 1},
		{node: 2, distance: 1},
		{node: 3, distance: 2},
	}, order)
}
