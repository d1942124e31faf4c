// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/turbine/turbinetest"
	"github.com/stretchr/testify/require"
)

// TestGetBroadcastAddrsLegacyGateOff exercises spec S4/S6: with the feature
// gate never activated, broadcast resolves through weighted_best over
// Index and returns exactly one address.
func TestGetBroadcastAddrsLegacyGateOff(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	c := turbinetest.NewCluster(rng, 50, 0, 20)
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleBroadcast)

	bank := &turbinetest.Bank{
		TurbinePeersShuffleActivatedSlotF: func() (Slot, bool) { return 0, false },
	}
	shred := &turbinetest.Shred{
		SeedF: func(Pubkey, Bank) [32]byte { return turbinetest.RandomSeed(rng) },
	}

	addrs := GetBroadcastAddrs(view, shred, bank, 10, AllowAll{}, nil)
	require.Len(t, addrs, 1)
}

// TestGetBroadcastAddrsShuffledGateOn exercises spec §4.4: with the gate
// activated in a strictly earlier epoch than the shred, broadcast returns a
// non-empty address set (either the single-draw fast path or the tree
// fallback).
func TestGetBroadcastAddrsShuffledGateOn(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := turbinetest.NewCluster(rng, 50, 0, 20)
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleBroadcast)

	bank := &turbinetest.Bank{
		TurbinePeersShuffleActivatedSlotF: func() (Slot, bool) { return 100, true },
		EpochOfSlotF: func(slot Slot) Epoch {
			if slot >= 200 {
				return 2
			}
			return 1
		},
	}
	shred := &turbinetest.Shred{
		SlotF: func() Slot { return 200 },
		SeedF: func(Pubkey, Bank) [32]byte { return turbinetest.RandomSeed(rng) },
	}

	addrs := GetBroadcastAddrs(view, shred, bank, 10, AllowAll{}, nil)
	require.NotEmpty(t, addrs)
}

// TestEnableTurbinePeersShufflePatchBoundary verifies spec §4.4's
// asymmetric activation predicate: equal epochs keep the legacy path.
func TestEnableTurbinePeersShufflePatchBoundary(t *testing.T) {
	bank := &turbinetest.Bank{
		TurbinePeersShuffleActivatedSlotF: func() (Slot, bool) { return 100, true },
		EpochOfSlotF: func(slot Slot) Epoch {
			if slot >= 200 {
				return 5
			}
			return 5
		},
	}
	require.False(t, enableTurbinePeersShufflePatch(200, bank))
}

func TestEnableTurbinePeersShufflePatchNeverActivated(t *testing.T) {
	bank := &turbinetest.Bank{
		TurbinePeersShuffleActivatedSlotF: func() (Slot, bool) { return 0, false },
	}
	require.False(t, enableTurbinePeersShufflePatch(9999, bank))
}

// TestGetBroadcastPeerLegacyPanicsWithoutContactInfo verifies the builder
// invariant documented on ErrNoLiveIndex: every Index entry must resolve to
// a ContactInfo, and getBroadcastPeerLegacy panics when one does not.
func TestGetBroadcastPeerLegacyPanicsWithoutContactInfo(t *testing.T) {
	view := &ClusterView{
		Nodes:             []Node{newBareNode(ids.GenerateTestNodeID(), 5)},
		Index:             []WeightedNode{{Weight: 5, NodesIndex: 0}},
		CumulativeWeights: []uint64{5},
	}
	require.Panics(t, func() {
		getBroadcastPeerLegacy(view, [32]byte{1}, log.NewNoOpLogger())
	})
}

func TestContactInfoAgeFuture(t *testing.T) {
	future := uint64(time.Now().UnixMilli()) + 1_000_000
	require.Equal(t, time.Duration(0), contactInfoAge(future))
}
