package driver

import (
	"fmt"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/core"
	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/topology"
)

// Observation is a value a configuration node output took and the cycle at
// which it became visible.
type Observation struct {
	Value bits.Vector
	Cycle int
}

// Network models every configuration node of a topology behind its relays.
// A relay forwards the stream unchanged with one cycle of delay; a node sees
// a bit depth+1 cycles after the driver shifts it, where depth is the hop
// count of the node's relay below the root.
type Network struct {
	topo *topology.Topology

	ones    int
	synced  bool
	buf     []bool
	values  map[int]bits.Vector
	history map[int][]Observation

	packets   int
	unclaimed int
	err       error
}

// NewNetwork creates a network model waiting for its reset pulse.
func NewNetwork(topo *topology.Topology) *Network {
	return &Network{
		topo:    topo,
		values:  make(map[int]bits.Vector),
		history: make(map[int][]Observation),
	}
}

// ShiftIn implements BitSink.
func (n *Network) ShiftIn(bit bool, cycle int) {
	if n.err != nil {
		return
	}

	if !n.synced {
		n.awaitReset(bit, cycle)
		return
	}

	n.buf = append(n.buf, bit)

	headerLen := protocol.ValidBitSize + protocol.FrameBitSize + protocol.LenWidth
	if len(n.buf) < headerLen {
		return
	}

	lenStart := protocol.ValidBitSize + protocol.FrameBitSize
	length, _ := bits.FromLSBFirst(n.buf[lenStart : lenStart+protocol.LenWidth]).Uint()
	if int(length) < headerLen {
		n.err = fmt.Errorf("cycle %d: packet length field %d is shorter than its header", cycle, length)
		return
	}
	if len(n.buf) < int(length) {
		return
	}

	packet := bits.FromLSBFirst(n.buf)
	n.buf = nil
	n.deliver(packet, cycle)
}

func (n *Network) awaitReset(bit bool, cycle int) {
	if !bit {
		n.ones = 0
		return
	}

	n.ones++
	if n.ones < protocol.ResetLen {
		return
	}

	n.synced = true
	for _, c := range n.topo.Configs {
		n.values[c.ID] = c.Default
		n.history[c.ID] = []Observation{{Value: c.Default, Cycle: n.arrival(c, cycle)}}
	}

	core.Trace("NetworkReset", "Cycle", cycle, "Nodes", len(n.topo.Configs))
}

func (n *Network) deliver(packet bits.Vector, cycle int) {
	p, err := protocol.DecodePacket(packet)
	if err != nil {
		n.err = fmt.Errorf("cycle %d: %w", cycle, err)
		return
	}
	n.packets++

	node, ok := n.topo.Config(p.ID)
	if !ok || node.Width != p.Value.Width() {
		// no node claims the packet; it passes through unnoticed
		n.unclaimed++
		return
	}

	at := n.arrival(node, cycle)
	core.Trace("ConfigWrite", "Node", p.ID, "Value", p.Value.String(), "Cycle", at)

	if n.values[p.ID].Equal(p.Value) {
		return
	}
	n.values[p.ID] = p.Value
	n.history[p.ID] = append(n.history[p.ID], Observation{Value: p.Value, Cycle: at})
}

func (n *Network) arrival(c topology.ConfigNode, cycle int) int {
	return cycle + n.topo.Depth(c.Relay) + 1
}

// Synced reports whether the reset pulse has been seen.
func (n *Network) Synced() bool {
	return n.synced
}

// Packets returns the number of packets decoded.
func (n *Network) Packets() int {
	return n.packets
}

// Unclaimed returns the number of packets no node accepted.
func (n *Network) Unclaimed() int {
	return n.unclaimed
}

// Pending returns the number of bits of an incomplete trailing packet.
func (n *Network) Pending() int {
	return len(n.buf)
}

// Err returns the first framing error, if any.
func (n *Network) Err() error {
	return n.err
}

// History returns the observable changes of a node, starting with its reset
// value.
func (n *Network) History(id int) []Observation {
	return n.history[id]
}

// Observed returns the value sequence of a node without timestamps.
func (n *Network) Observed(id int) []bits.Vector {
	h := n.history[id]
	out := make([]bits.Vector, len(h))
	for i, o := range h {
		out[i] = o.Value
	}
	return out
}

// LastChange returns the latest cycle at which any node output changed.
func (n *Network) LastChange() int {
	last := 0
	for _, h := range n.history {
		if c := h[len(h)-1].Cycle; c > last {
			last = c
		}
	}
	return last
}
