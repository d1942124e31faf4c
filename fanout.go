// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

// ComputeRetransmitPeers partitions nodes into the two-level turbine tree
// for the node sitting at selfIndex, given fan-out fanout. This is a
// bit-for-bit index-arithmetic contract with the on-wire propagation tree
// (spec §4.2) and must not be "simplified" — every node in the cluster
// must derive the identical partition from the identical (fanout, nodes)
// input.
//
// The node at selfIndex belongs to neighborhood g = selfIndex / fanout.
// neighbors is nodes[g*fanout : min((g+1)*fanout, len(nodes))]; the local
// node sits at offset selfIndex % fanout inside it. children is the set of
// next-generation nodes this neighborhood is responsible for: for each
// offset j in [0, fanout), neighbors[j] owns the contiguous slice of nodes
// starting at fanout*fanout*g + fanout*(j+1).
func ComputeRetransmitPeers(fanout, selfIndex int, nodes []Node) (neighbors, children []Node) {
	n := len(nodes)
	g := selfIndex / fanout

	neighborsStart := g * fanout
	neighborsEnd := min(neighborsStart+fanout, n)
	neighbors = nodes[neighborsStart:neighborsEnd]

	// Children are the union, across every neighbor offset j in this
	// neighborhood, of the contiguous block
	// [fanout*fanout*g + fanout*(j+1), fanout*fanout*g + fanout*(j+2)).
	// Equivalently this is one contiguous run starting at the first
	// neighbor's (j = 0) descendant block.
	base := fanout*fanout*g + fanout
	start := min(base, n)
	end := min(base+fanout*len(neighbors), n)
	children = nodes[start:end]
	return neighbors, children
}
