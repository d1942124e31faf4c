// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import "sort"

// Role selects which of the two view shapes NewClusterView builds. It
// replaces the original engine's compile-time type-tag generic parameter
// with a plain enum — no dispatch overhead, no reflection (spec §9).
type Role int

const (
	RoleBroadcast Role = iota
	RoleRetransmit
)

// ClusterView is the per-epoch, stake-weighted, deterministically ordered
// view of the cluster. It is immutable once built and safe to share across
// goroutines; nothing mutates it in place (see cache/viewcache.go).
type ClusterView struct {
	SelfPubkey Pubkey

	// Nodes holds every unique node (deduplicated by pubkey): the local
	// node, every gossip TVU peer, and every positively staked pubkey in
	// the epoch's stake table. Sorted by (stake, pubkey) descending.
	Nodes []Node

	// Index enumerates the Nodes entries that carry a ContactInfo — for
	// broadcast views the local node is excluded, for retransmit views it
	// is included. Sorted by (max(1,stake), pubkey) descending.
	Index []WeightedNode

	// CumulativeWeights is the prefix sum over Nodes of Stake, excluding
	// the local node; only populated for broadcast views. If the total
	// stake is zero it is recomputed as a prefix-sum of 1's so uniform
	// sampling remains possible (spec §3, §9).
	CumulativeWeights []uint64

	role Role
}

// WeightedNode is one entry of ClusterView.Index: the node's sampling
// weight (max(1, stake)) alongside its position in ClusterView.Nodes.
type WeightedNode struct {
	Weight     uint64
	NodesIndex int
}

// NumPeers returns the number of entries in Index.
func (v *ClusterView) NumPeers() int {
	return len(v.Index)
}

// NumPeersLive returns the number of Index peers whose wallclock is within
// CRDSGossipPullCRDSTimeoutMS of nowMillis.
func (v *ClusterView) NumPeersLive(nowMillis uint64) int {
	count := 0
	for _, wn := range v.Index {
		ci := v.Nodes[wn.NodesIndex].ContactInfo()
		if ci == nil {
			continue
		}
		var elapsed uint64
		if ci.Wallclock < nowMillis {
			elapsed = nowMillis - ci.Wallclock
		} else {
			elapsed = ci.Wallclock - nowMillis
		}
		if elapsed < CRDSGossipPullCRDSTimeoutMS {
			count++
		}
	}
	return count
}

// NewClusterView builds a ClusterView for the given role from gossip
// contact info plus an epoch stake map (spec §4.3).
func NewClusterView(ci ClusterInfo, stakes map[Pubkey]uint64, role Role) *ClusterView {
	selfPubkey := ci.ID()
	nodes := gatherNodes(ci, stakes)

	v := &ClusterView{SelfPubkey: selfPubkey, Nodes: nodes, role: role}
	if role == RoleBroadcast {
		v.CumulativeWeights = buildCumulativeWeights(selfPubkey, nodes)
	}
	v.Index = buildIndex(selfPubkey, nodes, role)
	return v
}

// gossipSet is the membership check gatherNodes needs: has a staked
// pubkey already been seen in gossip (as self or a TVU peer)? A plain
// map rather than a general-purpose Set container, since nothing here
// ever unions, diffs, or serializes this — it only ever answers "have I
// added you yet."
type gossipSet map[Pubkey]struct{}

func newGossipSet(self Pubkey) gossipSet {
	s := make(gossipSet, 1)
	s.add(self)
	return s
}

func (s gossipSet) add(id Pubkey) {
	s[id] = struct{}{}
}

func (s gossipSet) has(id Pubkey) bool {
	_, ok := s[id]
	return ok
}

// gatherNodes seeds the raw node list with the local node, every gossip
// TVU peer, and every positively staked pubkey, then sorts by
// (stake, pubkey) descending and deduplicates by pubkey, keeping the first
// occurrence. Because the sort is stable, a ContactInfo entry that ties
// with a bare-pubkey entry for the same key sorts first and wins
// deduplication (spec §4.3 steps 1-2).
func gatherNodes(ci ClusterInfo, stakes map[Pubkey]uint64) []Node {
	self := ci.MyContactInfo()
	peers := ci.TVUPeers()

	raw := make([]Node, 0, len(peers)+len(stakes)+1)
	raw = append(raw, newContactNode(self, stakes[self.ID]))
	for _, p := range peers {
		raw = append(raw, newContactNode(p, stakes[p.ID]))
	}
	seen := newGossipSet(self.ID)
	for _, p := range peers {
		seen.add(p.ID)
	}
	for pubkey, stake := range stakes {
		if stake > 0 && !seen.has(pubkey) {
			raw = append(raw, newBareNode(pubkey, stake))
		}
	}

	sort.SliceStable(raw, func(i, j int) bool {
		return nodeLess(raw[i], raw[j])
	})

	out := raw[:0:0]
	var lastKey Pubkey
	haveLast := false
	for _, n := range raw {
		if haveLast && n.ID == lastKey {
			continue
		}
		out = append(out, n)
		lastKey = n.ID
		haveLast = true
	}
	return out
}

// nodeLess orders by (stake, pubkey) descending.
func nodeLess(a, b Node) bool {
	if a.Stake != b.Stake {
		return a.Stake > b.Stake
	}
	return pubkeyGreater(a.ID, b.ID)
}

func pubkeyGreater(a, b Pubkey) bool {
	return a.Compare(b) > 0
}

func buildCumulativeWeights(selfPubkey Pubkey, nodes []Node) []uint64 {
	out := make([]uint64, len(nodes))
	var acc uint64
	nonZero := false
	for i, n := range nodes {
		if n.ID != selfPubkey {
			acc += n.Stake
			if n.Stake != 0 {
				nonZero = true
			}
		}
		out[i] = acc
	}
	if nonZero || len(nodes) == 0 {
		return out
	}
	// All (non-self) stakes are zero: recompute as a prefix-sum of 1's so
	// uniform sampling remains possible (spec §3, §9).
	acc = 0
	for i, n := range nodes {
		if n.ID != selfPubkey {
			acc++
		}
		out[i] = acc
	}
	return out
}

func buildIndex(selfPubkey Pubkey, nodes []Node, role Role) []WeightedNode {
	type candidate struct {
		weight uint64
		idx    int
		pubkey Pubkey
	}
	candidates := make([]candidate, 0, len(nodes))
	for i, n := range nodes {
		if n.ContactInfo() == nil {
			continue
		}
		if role == RoleBroadcast && n.ID == selfPubkey {
			continue
		}
		candidates = append(candidates, candidate{weight: max(uint64(1), n.Stake), idx: i, pubkey: n.ID})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return pubkeyGreater(candidates[i].pubkey, candidates[j].pubkey)
	})
	out := make([]WeightedNode, len(candidates))
	for i, c := range candidates {
		out[i] = WeightedNode{Weight: c.weight, NodesIndex: c.idx}
	}
	return out
}
