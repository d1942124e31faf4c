// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import "time"

const (
	// MaxContactInfoAge bounds how stale a peer's self-reported wallclock may
	// be before its contact info is considered unusable for the shuffled
	// broadcast fast-path. Required for wire compatibility across the
	// cluster; do not change without a feature gate.
	MaxContactInfoAge = 120 * time.Second

	// CRDSGossipPullCRDSTimeoutMS is the liveness window used by
	// ClusterView.NumPeersLive, mirroring the gossip pull-request timeout
	// of the external CRDS table this engine treats as a collaborator.
	CRDSGossipPullCRDSTimeoutMS uint64 = 15_000
)
