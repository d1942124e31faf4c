// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package turbine implements the stake-weighted cluster-node selection
// engine used to pick, for every shred a validator broadcasts or
// retransmits, exactly which peer sockets receive it.
package turbine

import (
	"net"

	"github.com/luxfi/ids"
)

// Pubkey is the 32-byte identity of a cluster node. It is the pack's
// standard node-identity type rather than a bespoke array, so this engine
// interoperates with every other github.com/luxfi component that already
// speaks ids.NodeID.
type Pubkey = ids.NodeID

// Epoch and Slot are the units the external bank/epoch-schedule
// collaborator (see external.go) hands us; this engine never interprets
// them beyond using them as map/cache keys.
type Epoch = uint64
type Slot = uint64

// ContactInfo is the gossip record binding a Pubkey to the sockets it
// advertises. Wallclock is the peer's self-reported creation time in
// milliseconds, used by the liveness filters in broadcast.go and
// clusterview.go.
type ContactInfo struct {
	ID          Pubkey
	Wallclock   uint64
	TVU         *net.UDPAddr
	TVUForwards *net.UDPAddr
}

// Node is either a full ContactInfo (seen in gossip) or a bare Pubkey
// (positively staked but never observed in gossip). Rather than a boxed
// sum type, Contact is nil for the bare-pubkey variant and the pubkey is
// carried alongside it; this mirrors the rest of the pack's preference for
// plain structs with optional fields over hand-rolled enums.
type Node struct {
	ID      Pubkey
	Contact *ContactInfo
	Stake   uint64
}

// Pubkey returns the node's identity regardless of variant.
func (n Node) Pubkey() Pubkey {
	return n.ID
}

// ContactInfo returns the node's gossip record, or nil if this node is the
// bare-pubkey (staked, unseen-in-gossip) variant.
func (n Node) ContactInfo() *ContactInfo {
	return n.Contact
}

func newContactNode(ci ContactInfo, stake uint64) Node {
	c := ci
	return Node{ID: ci.ID, Contact: &c, Stake: stake}
}

func newBareNode(pubkey Pubkey, stake uint64) Node {
	return Node{ID: pubkey, Stake: stake}
}
