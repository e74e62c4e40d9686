// Package bitstream assembles the serial test vector fed into the root of the
// configuration network.
//
// The vector is written most significant bit first and shifted in from its
// least significant end. Assembly starts from the reset preamble and
// prepends one packet per write in plan order, so the preamble is shifted in
// first and the packets follow in plan order:
//
//	[packet N] ... [packet 2][packet 1][reset preamble]
//	                                   ^ shifted in first
package bitstream

import (
	"fmt"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/testplan"
	"github.com/sarchlab/cfgnet/topology"
)

// Bitstream is an assembled test vector.
type Bitstream struct {
	// Bits is the whole vector, MSB first.
	Bits bits.Vector

	// Packets holds one encoded packet per write, in plan order.
	Packets []bits.Vector

	// ResetLen is the width of the reset preamble at the LSB end of Bits.
	ResetLen int
}

// Assemble encodes every write and concatenates the packets onto the reset
// preamble.
func Assemble(topo *topology.Topology, plan testplan.Plan) (*Bitstream, error) {
	packets := make([]bits.Vector, 0, len(plan))
	for i, op := range plan {
		if _, ok := topo.Config(op.NodeID); !ok {
			return nil, &testplan.UnknownNodeError{NodeID: op.NodeID, Index: i, Line: op.Line}
		}

		packet, err := protocol.EncodePacket(op.NodeID, op.Value)
		if err != nil {
			return nil, fmt.Errorf("test %d: %w", i, err)
		}
		packets = append(packets, packet)
	}

	vector := bits.Ones(protocol.ResetLen)
	for _, packet := range packets {
		vector = bits.Concat(packet, vector)
	}

	return &Bitstream{
		Bits:     vector,
		Packets:  packets,
		ResetLen: protocol.ResetLen,
	}, nil
}

// Len returns the number of bits in the vector.
func (b *Bitstream) Len() int {
	return b.Bits.Width()
}

// Segments returns the vector split at packet boundaries, MSB first: the last
// packet, ..., the first packet, then the reset preamble.
func (b *Bitstream) Segments() []bits.Vector {
	segs := make([]bits.Vector, 0, len(b.Packets)+1)
	for i := len(b.Packets) - 1; i >= 0; i-- {
		segs = append(segs, b.Packets[i])
	}
	return append(segs, b.Bits[b.Len()-b.ResetLen:])
}

// ShiftOrder returns the bits in the order a driver shifts them into the
// network: reset preamble first, then every packet LSB first.
func (b *Bitstream) ShiftOrder() []bool {
	return b.Bits.LSBFirst()
}
