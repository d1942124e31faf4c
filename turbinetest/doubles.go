// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package turbinetest provides test doubles for the engine's external
// collaborators (turbine.ClusterInfo, turbine.Bank, turbine.Shred), in the
// F-field style validators/validatorstest.State uses for validator-state
// doubles; only ClusterInfo carries Cant-flags. For turbine.SocketAddrSpace
// the tests use turbine.AllowAll.
package turbinetest

import (
	"testing"

	"github.com/luxfi/turbine"
)

// ClusterInfo is a configurable turbine.ClusterInfo double.
type ClusterInfo struct {
	T *testing.T

	IDF            func() turbine.Pubkey
	MyContactInfoF func() turbine.ContactInfo
	TVUPeersF      func() []turbine.ContactInfo

	CantID            bool
	CantMyContactInfo bool
	CantTVUPeers      bool
}

func (c *ClusterInfo) ID() turbine.Pubkey {
	if c.IDF != nil {
		return c.IDF()
	}
	if c.CantID && c.T != nil {
		c.T.Fatal("unexpected ID")
	}
	return turbine.Pubkey{}
}

func (c *ClusterInfo) MyContactInfo() turbine.ContactInfo {
	if c.MyContactInfoF != nil {
		return c.MyContactInfoF()
	}
	if c.CantMyContactInfo && c.T != nil {
		c.T.Fatal("unexpected MyContactInfo")
	}
	return turbine.ContactInfo{}
}

func (c *ClusterInfo) TVUPeers() []turbine.ContactInfo {
	if c.TVUPeersF != nil {
		return c.TVUPeersF()
	}
	if c.CantTVUPeers && c.T != nil {
		c.T.Fatal("unexpected TVUPeers")
	}
	return nil
}

// Bank is a configurable turbine.Bank double.
type Bank struct {
	T *testing.T

	SlotF                             func() turbine.Slot
	LeaderScheduleEpochF              func(turbine.Slot) turbine.Epoch
	EpochStakedNodesF                 func(turbine.Epoch) map[turbine.Pubkey]uint64
	TurbinePeersShuffleActivatedSlotF func() (turbine.Slot, bool)
	EpochOfSlotF                      func(turbine.Slot) turbine.Epoch
}

func (b *Bank) Slot() turbine.Slot {
	if b.SlotF != nil {
		return b.SlotF()
	}
	return 0
}

func (b *Bank) LeaderScheduleEpoch(shredSlot turbine.Slot) turbine.Epoch {
	if b.LeaderScheduleEpochF != nil {
		return b.LeaderScheduleEpochF(shredSlot)
	}
	return b.EpochOfSlot(shredSlot)
}

func (b *Bank) EpochStakedNodes(epoch turbine.Epoch) map[turbine.Pubkey]uint64 {
	if b.EpochStakedNodesF != nil {
		return b.EpochStakedNodesF(epoch)
	}
	return nil
}

func (b *Bank) TurbinePeersShuffleActivatedSlot() (turbine.Slot, bool) {
	if b.TurbinePeersShuffleActivatedSlotF != nil {
		return b.TurbinePeersShuffleActivatedSlotF()
	}
	return 0, false
}

func (b *Bank) EpochOfSlot(slot turbine.Slot) turbine.Epoch {
	if b.EpochOfSlotF != nil {
		return b.EpochOfSlotF(slot)
	}
	return slot
}

// Shred is a configurable turbine.Shred double.
type Shred struct {
	SlotF func() turbine.Slot
	SeedF func(turbine.Pubkey, turbine.Bank) [32]byte
}

func (s *Shred) Slot() turbine.Slot {
	if s.SlotF != nil {
		return s.SlotF()
	}
	return 0
}

func (s *Shred) Seed(pubkey turbine.Pubkey, bank turbine.Bank) [32]byte {
	if s.SeedF != nil {
		return s.SeedF(pubkey, bank)
	}
	return [32]byte{}
}
