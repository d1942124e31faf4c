// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import "errors"

var (
	// ErrEmptyWeights marks the degenerate, non-fatal "nothing to sample
	// from" condition (spec §7, "degenerate input is never fatal"): logged
	// at the call site, never returned to a selection caller, and never
	// panicked on.
	ErrEmptyWeights = errors.New("turbine: no weights to sample from")

	// ErrNoLiveIndex is the fatal builder-invariant violation: a
	// ClusterView.Index entry whose NodesIndex does not resolve to a
	// ContactInfo (spec §7). Index is built to only ever reference live
	// nodes; seeing this means NewClusterView itself is broken.
	ErrNoLiveIndex = errors.New("turbine: index entry does not resolve to a live contact info")

	// ErrMissingSelf is the fatal builder-invariant violation: the local
	// node cannot be located in the neighborhood ComputeRetransmitPeers
	// just built for it (spec §7). Seeing this means the shuffle or the
	// view it was given omitted the local node.
	ErrMissingSelf = errors.New("turbine: local node missing from its own neighborhood")
)
