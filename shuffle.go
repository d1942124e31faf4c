// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package turbine

import "github.com/luxfi/turbine/sampler"

// shuffleNodes stake-weight-shuffles nodes, a slice already sorted by
// (stake, pubkey) descending (the same order ClusterView.Nodes keeps).
// Unstaked nodes always sort after every staked node: they are shuffled
// uniformly among themselves as a separate pass, so they can never win a
// draw ahead of a staked peer (spec §4.4's fallback tree build;
// reinstated from the original's shuffle_nodes helper per SPEC_FULL §10).
func shuffleNodes(nodes []Node, seed [32]byte) []Node {
	numStaked := 0
	for _, n := range nodes {
		if n.Stake == 0 {
			break
		}
		numStaked++
	}

	src := sampler.NewChaCha8Source(seed)

	stakedWeights := make([]uint64, numStaked)
	for i := 0; i < numStaked; i++ {
		stakedWeights[i] = nodes[i].Stake
	}
	order := sampler.WeightedShuffleWithSource(stakedWeights, src)

	out := make([]Node, 0, len(nodes))
	for _, i := range order {
		out = append(out, nodes[i])
	}

	numUnstaked := len(nodes) - numStaked
	if numUnstaked > 0 {
		unstakedWeights := make([]uint64, numUnstaked)
		for i := range unstakedWeights {
			unstakedWeights[i] = 1
		}
		unstakedOrder := sampler.WeightedShuffleWithSource(unstakedWeights, src)
		for _, i := range unstakedOrder {
			out = append(out, nodes[numStaked+i])
		}
	}
	return out
}
