// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import "net"

// ClusterInfo is the gossip-layer collaborator: it supplies the local
// node's own identity and contact info, plus the set of peers currently
// known to run a TVU (the socket receiving shreds at full detail).
//
// This engine never talks gossip itself; ClusterInfo is the seam an
// embedding validator plugs its real gossip table into.
type ClusterInfo interface {
	ID() Pubkey
	MyContactInfo() ContactInfo
	TVUPeers() []ContactInfo
}

// Bank is the epoch/feature-gate oracle. The engine treats leader
// schedules, epoch stake tables, and feature activation as entirely
// external state; Bank is the seam for that.
type Bank interface {
	Slot() Slot
	LeaderScheduleEpoch(shredSlot Slot) Epoch
	EpochStakedNodes(epoch Epoch) map[Pubkey]uint64
	// TurbinePeersShuffleActivatedSlot returns the slot at which the
	// "turbine-peers-shuffle-patch" feature gate activated, or false if it
	// has never been activated on this bank.
	TurbinePeersShuffleActivatedSlot() (Slot, bool)
	// EpochOfSlot maps a slot to its epoch, used to resolve the
	// feature-gate's activation epoch (spec §4.4: feature_epoch < shred_epoch).
	EpochOfSlot(slot Slot) Epoch
}

// Shred is the block-fragment collaborator. Seed is an opaque 32-byte
// function of the shred and bank; its exact derivation is delegated to the
// embedding validator (spec §9, Open Questions) and is never computed here.
type Shred interface {
	Slot() Slot
	Seed(pubkey Pubkey, bank Bank) [32]byte
}

// SocketAddrSpace gates which addresses are acceptable destinations (e.g.
// rejecting loopback/private ranges outside of local dev/test). A
// permissive AllowAll implementation is provided below for tests and
// single-node use.
type SocketAddrSpace interface {
	Check(addr *net.UDPAddr) bool
}

// AllowAll is a SocketAddrSpace that accepts every non-nil address. It is
// the engine's analog of the original's SocketAddrSpace::Unspecified.
type AllowAll struct{}

func (AllowAll) Check(addr *net.UDPAddr) bool {
	return addr != nil
}

// IsValidAddress reports whether a ContactInfo-advertised address passes
// both a nil-check and the given socket-address space.
func IsValidAddress(addr *net.UDPAddr, space SocketAddrSpace) bool {
	return addr != nil && space.Check(addr)
}
