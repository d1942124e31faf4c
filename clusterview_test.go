// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import (
	"math/rand"
	"testing"

	"github.com/luxfi/turbine/turbinetest"
	"github.com/stretchr/testify/require"
)

// TestClusterViewCompleteness verifies spec §8.2: every gossip TVU peer
// and every positively staked pubkey appears exactly once in Nodes, and
// every Index entry has a ContactInfo.
func TestClusterViewCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := turbinetest.NewCluster(rng, 999, 100, 20)
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleRetransmit)

	require.GreaterOrEqual(t, len(view.Nodes), 1000)
	require.Len(t, view.Index, 1000) // self + 999 peers = 1000 contact-info nodes

	byPubkey := make(map[Pubkey]Node, len(view.Nodes))
	for _, n := range view.Nodes {
		_, dup := byPubkey[n.ID]
		require.False(t, dup, "duplicate pubkey in Nodes")
		byPubkey[n.ID] = n
	}
	for _, p := range c.Peers {
		n, ok := byPubkey[p.ID]
		require.True(t, ok)
		require.NotNil(t, n.ContactInfo())
		require.Equal(t, p.ID, n.ContactInfo().ID)
	}
	for pubkey, stake := range c.Stakes {
		if stake > 0 {
			require.Equal(t, stake, byPubkey[pubkey].Stake)
		}
	}
	for _, wn := range view.Index {
		require.NotNil(t, view.Nodes[wn.NodesIndex].ContactInfo())
	}
}

// TestRetransmitViewIncludesSelf verifies spec §8.3.
func TestRetransmitViewIncludesSelf(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	c := turbinetest.NewCluster(rng, 200, 20, 20)
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleRetransmit)

	found := false
	for _, wn := range view.Index {
		if view.Nodes[wn.NodesIndex].ID == c.Self.ID {
			found = true
		}
	}
	require.True(t, found)
}

// TestBroadcastViewExcludesSelf verifies spec §8.3 and S2: the local node
// is absent from Index, and |Index| = |gossip peers|.
func TestBroadcastViewExcludesSelf(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := turbinetest.NewCluster(rng, 200, 20, 20)
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleBroadcast)

	for _, wn := range view.Index {
		require.NotEqual(t, c.Self.ID, view.Nodes[wn.NodesIndex].ID)
	}
	require.Len(t, view.Index, len(c.Peers))
}

// TestWeightFloor verifies spec §8.5: every weight in Index equals
// max(1, stake) for its node.
func TestWeightFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	c := turbinetest.NewCluster(rng, 300, 30, 5) // small maxStake so zero-stake peers are common
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleRetransmit)

	for _, wn := range view.Index {
		stake := view.Nodes[wn.NodesIndex].Stake
		want := stake
		if want < 1 {
			want = 1
		}
		require.Equal(t, want, wn.Weight)
	}
}

// TestCumulativeWeightsZeroFallback verifies spec §3/§9: when every
// non-self stake is zero, CumulativeWeights becomes a prefix-sum of 1's.
func TestCumulativeWeightsZeroFallback(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c := turbinetest.NewCluster(rng, 50, 0, 1) // maxStake=1 => Int63n(1) is always 0
	view := NewClusterView(c.ClusterInfo, c.Stakes, RoleBroadcast)

	require.Len(t, view.CumulativeWeights, len(view.Nodes))
	last := view.CumulativeWeights[len(view.CumulativeWeights)-1]
	require.GreaterOrEqual(t, last, uint64(1))
	// Prefix sums over 1's grow by 1 per non-self node and by 0 at the self entry.
	for i := 1; i < len(view.CumulativeWeights); i++ {
		delta := view.CumulativeWeights[i] - view.CumulativeWeights[i-1]
		require.LessOrEqual(t, delta, uint64(1))
	}
}

// TestClusterViewDeterministic verifies spec §8.1: two independent builds
// from the same inputs produce byte-identical Nodes/Index ordering.
func TestClusterViewDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	c := turbinetest.NewCluster(rng, 300, 40, 20)

	a := NewClusterView(c.ClusterInfo, c.Stakes, RoleRetransmit)
	b := NewClusterView(c.ClusterInfo, c.Stakes, RoleRetransmit)

	require.Equal(t, len(a.Nodes), len(b.Nodes))
	for i := range a.Nodes {
		require.Equal(t, a.Nodes[i].ID, b.Nodes[i].ID)
		require.Equal(t, a.Nodes[i].Stake, b.Nodes[i].Stake)
	}
	require.Equal(t, a.Index, b.Index)
}
