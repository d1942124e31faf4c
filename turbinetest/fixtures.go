// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbinetest

import (
	"math/rand"
	"net"

	"github.com/luxfi/ids"
	"github.com/luxfi/turbine"
)

// Cluster is a synthetic gossip + stake population for end-to-end tests
// (spec §8, scenarios S1-S6): a self node, a set of gossip peers each with
// their own ContactInfo, and a stake table that may reference pubkeys
// never seen in gossip.
type Cluster struct {
	Self     turbine.ContactInfo
	Peers    []turbine.ContactInfo
	Stakes   map[turbine.Pubkey]uint64
	ClusterInfo *ClusterInfo
}

// NewCluster builds numPeers gossip peers with random stakes in
// [0, maxStake), plus numStakedOnly additional pubkeys that are staked but
// never appear in gossip.
func NewCluster(rng *rand.Rand, numPeers, numStakedOnly int, maxStake uint64) *Cluster {
	self := randomContactInfo(rng)
	peers := make([]turbine.ContactInfo, numPeers)
	stakes := make(map[turbine.Pubkey]uint64, numPeers+numStakedOnly+1)
	for i := range peers {
		peers[i] = randomContactInfo(rng)
		stakes[peers[i].ID] = uint64(rng.Int63n(int64(maxStake)))
	}
	for i := 0; i < numStakedOnly; i++ {
		stakes[ids.GenerateTestNodeID()] = uint64(rng.Int63n(int64(maxStake))) + 1
	}

	ci := &ClusterInfo{
		IDF:            func() turbine.Pubkey { return self.ID },
		MyContactInfoF: func() turbine.ContactInfo { return self },
		TVUPeersF:      func() []turbine.ContactInfo { return peers },
	}
	return &Cluster{Self: self, Peers: peers, Stakes: stakes, ClusterInfo: ci}
}

func randomContactInfo(rng *rand.Rand) turbine.ContactInfo {
	return turbine.ContactInfo{
		ID:          ids.GenerateTestNodeID(),
		Wallclock:   uint64(rng.Int63n(1 << 40)),
		TVU:         randomUDPAddr(rng),
		TVUForwards: randomUDPAddr(rng),
	}
}

func randomUDPAddr(rng *rand.Rand) *net.UDPAddr {
	ip := net.IPv4(byte(10), byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256)))
	return &net.UDPAddr{IP: ip, Port: 1024 + rng.Intn(40000)}
}

// RandomSeed returns a pseudo-random 32-byte seed for shred-seed fixtures.
// It must never be used to drive production selection — only to generate
// deterministic-enough test inputs.
func RandomSeed(rng *rand.Rand) [32]byte {
	var seed [32]byte
	rng.Read(seed[:])
	return seed
}
