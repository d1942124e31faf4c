// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	mrand "math/rand"
	"math/rand/v2"
)

// wallclockSource wraps math/rand for the non-deterministic case (tests
// and tooling that don't care about reproducibility).
type wallclockSource struct {
	*mrand.Rand
}

// NewWallclockSource returns a Source seeded from the given int64. It must
// never be used for shred-seed-driven selection — only for generating
// synthetic test fixtures.
func NewWallclockSource(seed int64) Source {
	return &wallclockSource{Rand: mrand.New(mrand.NewSource(seed))}
}

// chachaSource backs Source with math/rand/v2's ChaCha8: a CSPRNG stream
// cipher seeded directly from a 32-byte array, the same shape contract the
// original engine's rand_chacha::ChaChaRng::from_seed relies on. No pack
// dependency supplies a seeded CSPRNG with this exact shape, and the
// standard library's ChaCha8 is purpose-built for it, so it is used
// directly instead of through an invented wrapper.
type chachaSource struct {
	rng *rand.ChaCha8
}

// NewChaCha8Source returns a Source whose output is a pure, deterministic
// function of seed. Two callers with the same seed draw the identical
// sequence of values — the determinism rule required by spec §4.1.
func NewChaCha8Source(seed [32]byte) Source {
	return &chachaSource{rng: rand.NewChaCha8(seed)}
}

func (c *chachaSource) Uint64() uint64 {
	return c.rng.Uint64()
}
