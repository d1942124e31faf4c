// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import (
	"fmt"
	"net"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/turbine/sampler"
)

// GetBroadcastAddrs returns the zero-or-more UDP destinations the leader
// hands a shred to. view must have been built with RoleBroadcast.
//
// Behavior is gated by the "turbine-peers-shuffle-patch" feature (spec
// §4.4): while the gate is off, the legacy weighted_best path over Index is
// used; once on, a single cumulative-weight draw is attempted first, with
// a full shuffled-tree fallback. Both paths are kept permanently
// side-by-side — removing either silently forks the cluster (spec §9).
func GetBroadcastAddrs(view *ClusterView, shred Shred, rootBank Bank, fanout int, space SocketAddrSpace, logger log.Logger) []net.Addr {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	seed := shred.Seed(view.SelfPubkey, rootBank)
	if !enableTurbinePeersShufflePatch(shred.Slot(), rootBank) {
		node := getBroadcastPeerLegacy(view, seed, logger)
		if node == nil {
			return nil
		}
		if IsValidAddress(node.TVU, space) {
			return []net.Addr{node.TVU}
		}
		return nil
	}

	src := sampler.NewChaCha8Source(seed)
	index, ok := sampler.WeightedSampleSingle(view.CumulativeWeights, src)
	if ok {
		if node := view.Nodes[index].ContactInfo(); node != nil {
			age := contactInfoAge(node.Wallclock)
			if age < MaxContactInfoAge && IsValidAddress(node.TVU, space) {
				return []net.Addr{node.TVU}
			}
		}
	}

	return broadcastFallbackTree(view, seed, fanout, space)
}

// getBroadcastPeerLegacy returns the root of the turbine broadcast tree
// under the pre-feature-gate algorithm: a single weighted_best draw over
// Index.
func getBroadcastPeerLegacy(view *ClusterView, seed [32]byte, logger log.Logger) *ContactInfo {
	if len(view.Index) == 0 {
		logger.Debug("no broadcast peer selected", "err", ErrEmptyWeights)
		return nil
	}
	pairs := make([]sampler.WeightedIndex, len(view.Index))
	for i, wn := range view.Index {
		pairs[i] = sampler.WeightedIndex{Weight: wn.Weight, Index: wn.NodesIndex}
	}
	idx := sampler.WeightedBest(pairs, seed)
	node := view.Nodes[idx].ContactInfo()
	if node == nil {
		panic(fmt.Errorf("%w: broadcast index entry %d", ErrNoLiveIndex, idx))
	}
	return node
}

// broadcastFallbackTree excludes self, stake-weight-shuffles the
// remainder, builds the (neighbors, children) partition with i=0, and
// returns neighbors[0].TVU + neighbors[1:].TVUForwards + children[*].TVU,
// filtered by socket-space validity (spec §4.4).
func broadcastFallbackTree(view *ClusterView, seed [32]byte, fanout int, space SocketAddrSpace) []net.Addr {
	others := make([]Node, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		if n.ID != view.SelfPubkey {
			others = append(others, n)
		}
	}
	if len(others) == 0 {
		return nil
	}
	shuffled := shuffleNodes(others, seed)
	neighbors, children := ComputeRetransmitPeers(fanout, 0, shuffled)

	var out []net.Addr
	if len(neighbors) > 0 {
		if ci := neighbors[0].ContactInfo(); ci != nil && IsValidAddress(ci.TVU, space) {
			out = append(out, ci.TVU)
		}
	}
	for _, n := range neighbors[min(1, len(neighbors)):] {
		if ci := n.ContactInfo(); ci != nil && IsValidAddress(ci.TVUForwards, space) {
			out = append(out, ci.TVUForwards)
		}
	}
	for _, n := range children {
		if ci := n.ContactInfo(); ci != nil && IsValidAddress(ci.TVU, space) {
			out = append(out, ci.TVU)
		}
	}
	return out
}

func contactInfoAge(wallclockMillis uint64) time.Duration {
	nowMillis := uint64(time.Now().UnixMilli())
	if wallclockMillis > nowMillis {
		return 0
	}
	return time.Duration(nowMillis-wallclockMillis) * time.Millisecond
}

// enableTurbinePeersShufflePatch implements the feature-gate's asymmetric
// activation predicate: feature_epoch < shred_epoch, not <=. This
// preserves backward compatibility within the activation epoch itself
// (spec §4.4, §9).
func enableTurbinePeersShufflePatch(shredSlot Slot, rootBank Bank) bool {
	featureSlot, ok := rootBank.TurbinePeersShuffleActivatedSlot()
	if !ok {
		return false
	}
	featureEpoch := rootBank.EpochOfSlot(featureSlot)
	shredEpoch := rootBank.EpochOfSlot(shredSlot)
	return featureEpoch < shredEpoch
}
