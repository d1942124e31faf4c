// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import "sort"

// WeightedIndex pairs a weight with the caller's index, the shape
// weighted_best and the index/weights tables in clusterview.go use
// throughout.
type WeightedIndex struct {
	Weight uint64
	Index  int
}

// WeightedShuffle returns a permutation of 0..len(weights) drawn by
// successive weighted sampling without replacement: at each step the next
// position is drawn proportional to the remaining weight, then removed
// from the pool. A weight of 0 never wins a draw ahead of any positive
// weight, but is still included exactly once in the output (this matters
// for the "unstaked nodes sort last" contract used by the broadcast
// fallback tree build).
//
// weighted_shuffle is a pure function of (weights, seed): the seed is
// materialized into a Source by the caller (typically
// NewChaCha8Source(seed)) and never touches wall-clock or process state.
func WeightedShuffle(weights []uint64, seed [32]byte) []int {
	src := NewChaCha8Source(seed)
	return WeightedShuffleWithSource(weights, src)
}

// WeightedShuffleWithSource is WeightedShuffle parameterized over an
// already-constructed Source, so that a single seed can drive more than
// one shuffle in sequence (shuffleNodes in shuffle.go draws the staked and
// unstaked passes from the same stream, matching the original's two
// WeightedShuffle::new(rng, ...) calls sharing one ChaChaRng).
func WeightedShuffleWithSource(weights []uint64, src Source) []int {
	n := len(weights)
	indices := make([]int, n)
	remaining := make([]uint64, n)
	copy(remaining, weights)
	for i := range indices {
		indices[i] = i
	}

	out := make([]int, 0, n)
	live := indices
	for len(live) > 0 {
		var total uint64
		for _, i := range live {
			total += remaining[i]
		}
		var pick int
		if total == 0 {
			// All remaining weights are zero: fall back to uniform choice
			// over the remaining pool so a shuffle is still produced
			// (spec §9, "weight-zero handling").
			pick = int(src.Uint64() % uint64(len(live)))
		} else {
			target := src.Uint64() % total
			var cum uint64
			pick = len(live) - 1
			for idx, i := range live {
				cum += remaining[i]
				if target < cum {
					pick = idx
					break
				}
			}
		}
		out = append(out, live[pick])
		live = append(live[:pick:pick], live[pick+1:]...)
	}
	return out
}

// WeightedBest returns the index (from pairs[i].Index) a single weighted
// draw from seed selects. Ties in weight are broken by input order: pairs
// must already be given in the order ties should resolve in.
func WeightedBest(pairs []WeightedIndex, seed [32]byte) int {
	if len(pairs) == 0 {
		return -1
	}
	var total uint64
	for _, p := range pairs {
		total += p.Weight
	}
	if total == 0 {
		return pairs[0].Index
	}
	src := NewChaCha8Source(seed)
	target := src.Uint64() % total
	var cum uint64
	for _, p := range pairs {
		cum += p.Weight
		if target < cum {
			return p.Index
		}
	}
	return pairs[len(pairs)-1].Index
}

// WeightedSampleSingle draws a single index via a uniform value in
// [0, total) followed by a binary search over cumulative, the cumulative
// prefix-sum table ClusterView.CumulativeWeights materializes. Returns
// (0, false) iff cumulative is empty or its last element is zero.
func WeightedSampleSingle(cumulative []uint64, src Source) (int, bool) {
	if len(cumulative) == 0 {
		return 0, false
	}
	total := cumulative[len(cumulative)-1]
	if total == 0 {
		return 0, false
	}
	target := src.Uint64() % total
	idx := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > target
	})
	return idx, true
}
