// Package driver replays a test vector against a behavioral model of the
// configuration network.
//
// The Driver is an akita ticking component that shifts one bit per
// configuration clock cycle, preamble end first, into a BitSink. Network is
// the sink used for self-checks: it recognizes the reset pulse, frames
// packets by their length field and records every value change that a
// configuration node output would show.
package driver

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/cfgnet/bitstream"
	"github.com/sarchlab/cfgnet/topology"
)

// BitSink receives the serial stream.
type BitSink interface {
	// ShiftIn delivers one bit at the given configuration clock cycle.
	ShiftIn(bit bool, cycle int)
}

// Driver shifts a test vector into a BitSink.
type Driver struct {
	*sim.TickingComponent

	engine sim.Engine
	sink   BitSink
	vector []bool
	next   int
}

// Load sets the vector to shift and rewinds the driver.
func (d *Driver) Load(bs *bitstream.Bitstream) {
	d.vector = bs.ShiftOrder()
	d.next = 0
}

// Start schedules the first tick at time 0.
func (d *Driver) Start() {
	d.engine.Schedule(sim.MakeTickEvent(d.TickingComponent, 0))
}

// Tick shifts out one bit.
func (d *Driver) Tick() (madeProgress bool) {
	if d.next >= len(d.vector) {
		return false
	}

	d.sink.ShiftIn(d.vector[d.next], d.next)
	d.next++

	return true
}

// Shifted returns how many bits have left the driver.
func (d *Driver) Shifted() int {
	return d.next
}

// Done reports whether the whole vector has been shifted.
func (d *Driver) Done() bool {
	return d.next >= len(d.vector)
}

// Run shifts the bitstream into a fresh Network for topo and returns the
// network once the engine drains.
func Run(topo *topology.Topology, bs *bitstream.Bitstream, freq sim.Freq) (*Network, error) {
	engine := sim.NewSerialEngine()
	net := NewNetwork(topo)

	d := MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithSink(net).
		Build("Driver")
	d.Load(bs)
	d.Start()

	if err := engine.Run(); err != nil {
		return nil, fmt.Errorf("loopback simulation failed: %w", err)
	}
	if !d.Done() {
		return nil, fmt.Errorf("loopback stopped after %d of %d bits", d.Shifted(), len(d.vector))
	}

	return net, net.Err()
}
