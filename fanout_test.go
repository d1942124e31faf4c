// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func makeFlatNodes(n int) []Node {
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = newBareNode(ids.GenerateTestNodeID(), uint64(n-i))
	}
	return nodes
}

// TestNeighborhoodSelfPosition verifies spec §8.4: after
// ComputeRetransmitPeers(F, i, shuffled), neighbors[i%F] is the node at
// position i in the shuffled slice, for every fanout in [1, 199].
func TestNeighborhoodSelfPosition(t *testing.T) {
	nodes := makeFlatNodes(500)
	for fanout := 1; fanout < 200; fanout++ {
		for _, i := range []int{0, 1, fanout - 1, fanout, fanout + 1, len(nodes) - 1} {
			if i < 0 || i >= len(nodes) {
				continue
			}
			neighbors, _ := ComputeRetransmitPeers(fanout, i, nodes)
			require.Equal(t, nodes[i].ID, neighbors[i%fanout].ID, "fanout=%d i=%d", fanout, i)
		}
	}
}

func TestComputeRetransmitPeersRootNeighborhood(t *testing.T) {
	nodes := makeFlatNodes(50)
	neighbors, children := ComputeRetransmitPeers(10, 0, nodes)
	require.Len(t, neighbors, 10)
	require.Equal(t, nodes[0].ID, neighbors[0].ID)
	// The root neighborhood owns [10, 110), clamped to the 50 nodes present.
	require.Equal(t, nodes[10:50], children)
}

func TestComputeRetransmitPeersChildrenContiguousAcrossNeighborhood(t *testing.T) {
	const fanout = 4
	nodes := makeFlatNodes(4 + 16 + 16) // root neighborhood (4) + two generations of children
	neighbors, children := ComputeRetransmitPeers(fanout, 0, nodes)
	require.Len(t, neighbors, fanout)
	require.Len(t, children, fanout*fanout)
	require.Equal(t, nodes[fanout:fanout+fanout*fanout], children)
}

func TestComputeRetransmitPeersLastNeighborhoodTruncated(t *testing.T) {
	const fanout = 10
	nodes := makeFlatNodes(25) // 3 neighborhoods: [0,10) [10,20) [20,25)
	neighbors, children := ComputeRetransmitPeers(fanout, 22, nodes)
	require.Len(t, neighbors, 5) // last neighborhood is partial
	require.Equal(t, nodes[22], neighbors[22%fanout])
	// Partial neighborhoods have proportionally fewer children.
	require.LessOrEqual(t, len(children), fanout*len(neighbors))
}
