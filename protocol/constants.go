package protocol

import "github.com/sarchlab/cfgnet/bits"

// Wire parameters shared by every configuration node and packet.
const (
	// IDWidth is the width of the node id field.
	IDWidth = 8

	// LenWidth is the width of the packet length field.
	LenWidth = 8

	// ValidBitSize is the width of the valid marker closing every packet.
	ValidBitSize = 2

	// FrameBitSize is the width of one framing bit.
	FrameBitSize = 1

	// DataFrameLen is the number of data bits between payload framing bits.
	DataFrameLen = 8

	// ResetLen is the number of ones in the reset pulse that opens a vector.
	ResetLen = 10

	// HeaderLen counts every packet bit that is not payload: the three
	// separator frame bits, id, length and the valid marker.
	HeaderLen = 3*FrameBitSize + IDWidth + LenWidth + ValidBitSize

	// MaxID is the largest id the id field can carry.
	MaxID = 1<<IDWidth - 1

	// MaxPacketLen is the largest length the length field can carry.
	MaxPacketLen = 1<<LenWidth - 1
)

// FrameBit is the value of every framing bit.
const FrameBit = false

// ValidBits is the marker at the least significant end of every packet.
var ValidBits = bits.Vector{true, false}
