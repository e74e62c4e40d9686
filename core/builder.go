package core

import (
	"math/rand/v2"

	"github.com/sarchlab/cfgnet/timing"
	"github.com/sarchlab/cfgnet/topology"
)

// Builder can create generators.
type Builder struct {
	rng       *rand.Rand
	params    timing.Params
	maxRelays int
}

// NewBuilder returns a builder with the default timing constants.
func NewBuilder() Builder {
	return Builder{
		params:    timing.DefaultParams(),
		maxRelays: topology.DefaultMaxRelays,
	}
}

// WithRand sets the single random generator shared by every component.
func (b Builder) WithRand(r *rand.Rand) Builder {
	b.rng = r
	return b
}

// WithSeed is WithRand with a generator created by NewRand.
func (b Builder) WithSeed(seed uint64) Builder {
	b.rng = NewRand(seed)
	return b
}

// WithTiming sets the testbench timing constants.
func (b Builder) WithTiming(p timing.Params) Builder {
	b.params = p
	return b
}

// WithMaxRelays bounds the size of synthesized relay trees. n must be at
// least 1.
func (b Builder) WithMaxRelays(n int) Builder {
	if n < 1 {
		panic("a relay tree needs at least one node")
	}
	b.maxRelays = n
	return b
}

// Build creates a generator.
func (b Builder) Build() *Generator {
	if b.rng == nil {
		panic("generator needs a random generator")
	}

	return &Generator{
		rng:    b.rng,
		params: b.params,
		topoBuilder: topology.NewBuilder().
			WithRand(b.rng).
			WithMaxRelays(b.maxRelays),
	}
}

// NewRand creates the run's random generator. Runs with the same seed draw
// the same topology and plan.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
