// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sampler provides deterministic weighted sampling over a 32-byte
// seed. Every draw is a pure function of the seed and the input weights —
// no clock, PID, or thread-local state may ever feed into it, since two
// honest cluster nodes must derive the identical permutation from the
// identical shred seed.
package sampler

// Source is a source of randomness. WeightedShuffle and friends are
// parameterized over Source rather than a concrete RNG so that callers can
// substitute a deterministic, seed-derived stream (see NewChaCha8Source)
// without the sampling logic knowing the difference.
type Source interface {
	Uint64() uint64
}
