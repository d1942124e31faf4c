// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import (
	"fmt"
	"net"

	"github.com/luxfi/log"
	"github.com/luxfi/turbine/sampler"
)

// GetRetransmitAddrs returns the destinations a non-leader node forwards a
// shred to. view must have been built with RoleRetransmit.
//
// If this node is not on the critical path of its neighborhood (it is not
// neighbors[0]), it forwards only to its children's TVUForwards socket.
// Otherwise it forwards to every other neighbor's TVUForwards and every
// child's TVU (spec §4.5).
func GetRetransmitAddrs(view *ClusterView, slotLeader Pubkey, shred Shred, rootBank Bank, fanout int, logger log.Logger) []net.Addr {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	neighbors, children := getRetransmitPeers(view, slotLeader, shred, rootBank, fanout, logger)

	if len(neighbors) == 0 || neighbors[0].Pubkey() != view.SelfPubkey {
		return collectAddrs(children, func(ci *ContactInfo) *net.UDPAddr { return ci.TVUForwards })
	}
	out := collectAddrs(neighbors[1:], func(ci *ContactInfo) *net.UDPAddr { return ci.TVUForwards })
	out = append(out, collectAddrs(children, func(ci *ContactInfo) *net.UDPAddr { return ci.TVU })...)
	return out
}

func collectAddrs(nodes []Node, pick func(*ContactInfo) *net.UDPAddr) []net.Addr {
	var out []net.Addr
	for _, n := range nodes {
		ci := n.ContactInfo()
		if ci == nil {
			continue
		}
		if addr := pick(ci); addr != nil {
			out = append(out, addr)
		}
	}
	return out
}

// getRetransmitPeers builds the tree: it excludes the slot leader from the
// node list (if leader == self, a sign of misrouting, it logs an error and
// keeps every node — spec §7), stake-weight-shuffles the remainder, locates
// the local node's position, and partitions via ComputeRetransmitPeers.
func getRetransmitPeers(view *ClusterView, slotLeader Pubkey, shred Shred, rootBank Bank, fanout int, logger log.Logger) (neighbors, children []Node) {
	seed := shred.Seed(slotLeader, rootBank)
	if !enableTurbinePeersShufflePatch(shred.Slot(), rootBank) {
		return getRetransmitPeersCompat(view, seed, fanout, slotLeader, logger)
	}

	var nodes []Node
	if slotLeader == view.SelfPubkey {
		logger.Error("retransmit from slot leader", "slot_leader", slotLeader)
		nodes = append(nodes, view.Nodes...)
	} else {
		for _, n := range view.Nodes {
			if n.Pubkey() != slotLeader {
				nodes = append(nodes, n)
			}
		}
	}

	shuffled := shuffleNodes(nodes, seed)
	selfIndex := -1
	for i, n := range shuffled {
		if n.Pubkey() == view.SelfPubkey {
			selfIndex = i
			break
		}
	}
	if selfIndex < 0 {
		panic(fmt.Errorf("%w: absent from shuffled retransmit nodes", ErrMissingSelf))
	}

	neighbors, children = ComputeRetransmitPeers(fanout, selfIndex, shuffled)
	if neighbors[selfIndex%fanout].Pubkey() != view.SelfPubkey {
		panic(fmt.Errorf("%w: not at expected neighborhood offset", ErrMissingSelf))
	}
	return neighbors, children
}

// getRetransmitPeersCompat is the legacy (feature-gate-off) retransmit
// path: it shuffles the pre-built Index/weights table rather than the
// full Nodes list. Both paths must agree bit-for-bit on equivalent input
// (spec §4.5, §8.9) — kept permanently side by side with the shuffled
// path per spec §9.
func getRetransmitPeersCompat(view *ClusterView, seed [32]byte, fanout int, slotLeader Pubkey, logger log.Logger) (neighbors, children []Node) {
	var weights []uint64
	var indices []int
	if slotLeader == view.SelfPubkey {
		logger.Error("retransmit from slot leader", "slot_leader", slotLeader)
		for _, wn := range view.Index {
			weights = append(weights, wn.Weight)
			indices = append(indices, wn.NodesIndex)
		}
	} else {
		for _, wn := range view.Index {
			if view.Nodes[wn.NodesIndex].Pubkey() != slotLeader {
				weights = append(weights, wn.Weight)
				indices = append(indices, wn.NodesIndex)
			}
		}
	}

	shuffle := sampler.WeightedShuffle(weights, seed)
	shuffledIndices := make([]int, len(shuffle))
	for i, s := range shuffle {
		shuffledIndices[i] = indices[s]
	}

	selfIndex := -1
	for i, idx := range shuffledIndices {
		if view.Nodes[idx].Pubkey() == view.SelfPubkey {
			selfIndex = i
			break
		}
	}
	if selfIndex < 0 {
		panic(fmt.Errorf("%w: absent from shuffled retransmit index", ErrMissingSelf))
	}

	shuffledNodes := make([]Node, len(shuffledIndices))
	for i, idx := range shuffledIndices {
		shuffledNodes[i] = view.Nodes[idx]
	}

	neighbors, children = ComputeRetransmitPeers(fanout, selfIndex, shuffledNodes)
	if neighbors[selfIndex%fanout].Pubkey() != view.SelfPubkey {
		panic(fmt.Errorf("%w: not at expected neighborhood offset", ErrMissingSelf))
	}
	return neighbors, children
}
