// Package timing estimates how long a test vector needs to walk through the
// whole configuration network.
package timing

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/topology"
)

// Params are the testbench timing constants, in simulator time units.
type Params struct {
	// BaseTime covers reset and start-up before the vector is shifted.
	BaseTime int

	// ClockPeriod is the period of the configuration clock.
	ClockPeriod int
}

// DefaultParams returns the constants used by the generated testbench.
func DefaultParams() Params {
	return Params{
		BaseTime:    500,
		ClockPeriod: 30,
	}
}

// Budget is the result of an estimate.
type Budget struct {
	// VectorLen is the length of the assembled test vector.
	VectorLen int

	// ShiftChainLen is the number of bit times for configuration data to pass
	// every config node placed in series.
	ShiftChainLen int

	// RelayHops adds one propagation cycle per relay node.
	RelayHops int

	// Cycles is VectorLen + ShiftChainLen + RelayHops.
	Cycles int

	// SimTime is the total simulation time in time units.
	SimTime int
}

// ShiftChainLen sums the on-wire packet length of every configuration node.
func ShiftChainLen(topo *topology.Topology) int {
	total := 0
	for _, c := range topo.Configs {
		total += protocol.PacketLen(c.Width)
	}
	return total
}

// Estimate computes the budget for a vector of vectorLen bits.
func Estimate(topo *topology.Topology, vectorLen int, p Params) Budget {
	b := Budget{
		VectorLen:     vectorLen,
		ShiftChainLen: ShiftChainLen(topo),
		RelayHops:     topo.RelayCount(),
	}
	b.Cycles = b.VectorLen + b.ShiftChainLen + b.RelayHops
	b.SimTime = p.BaseTime + b.Cycles*p.ClockPeriod

	return b
}

// Duration converts the cycle budget to virtual time at the given
// configuration clock frequency.
func (b Budget) Duration(freq sim.Freq) sim.VTimeInSec {
	return sim.VTimeInSec(b.Cycles) * freq.Period()
}
