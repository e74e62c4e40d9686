// Package protocol implements the wire format of the configuration network.
//
// A packet, written most significant bit first, is
//
//	[framed data][0][id (IDWidth)][0][length (LenWidth)][0][valid "10"]
//
// The packet is shifted into the network least significant bit first, so a
// receiver sees the valid marker, then the length, then the id and finally
// the framed payload. The length field counts every bit of the packet
// including itself.
package protocol

import (
	"fmt"

	"github.com/sarchlab/cfgnet/bits"
)

// Packet is a decoded write.
type Packet struct {
	ID     int
	Value  bits.Vector
	Length int
}

// FramedDataLen returns the width of a payload of width data bits once the
// framing bits are inserted.
func FramedDataLen(width int) int {
	return width + width/DataFrameLen + FrameBitSize
}

// PacketLen returns the total width of a packet carrying width data bits.
func PacketLen(width int) int {
	return FramedDataLen(width) + HeaderLen
}

// EncodeData inserts a framing bit after every DataFrameLen data bits counted
// from the LSB, plus one more at the most significant end.
func EncodeData(value bits.Vector) bits.Vector {
	data := value.LSBFirst()
	framed := make([]bool, 0, FramedDataLen(len(data)))

	for i, b := range data {
		framed = append(framed, b)
		if (i+1)%DataFrameLen == 0 {
			framed = append(framed, FrameBit)
		}
	}
	framed = append(framed, FrameBit)

	return bits.FromLSBFirst(framed)
}

// EncodePacket frames one write of value to node id.
func EncodePacket(id int, value bits.Vector) (bits.Vector, error) {
	if value.Width() == 0 {
		return nil, &FieldOverflowError{Field: "value", NodeID: id, Value: 0, Limit: 1}
	}
	if id < 0 || id > MaxID {
		return nil, &FieldOverflowError{Field: "id", NodeID: id, Value: id, Limit: MaxID}
	}

	length := PacketLen(value.Width())
	if length > MaxPacketLen {
		return nil, &FieldOverflowError{
			Field: "length", NodeID: id, Value: length, Limit: MaxPacketLen,
		}
	}

	idBits, err := bits.FromUint(uint64(id), IDWidth)
	if err != nil {
		return nil, err
	}
	lenBits, err := bits.FromUint(uint64(length), LenWidth)
	if err != nil {
		return nil, err
	}

	frame := bits.Vector{FrameBit}
	packet := bits.Concat(
		EncodeData(value),
		frame, idBits,
		frame, lenBits,
		frame, ValidBits,
	)

	return packet, nil
}

// DecodePacket parses a packet produced by EncodePacket.
func DecodePacket(packet bits.Vector) (Packet, error) {
	minLen := HeaderLen + FramedDataLen(1)
	if packet.Width() < minLen {
		return Packet{}, &MalformedPacketError{
			Reason: fmt.Sprintf("%d bits is shorter than the minimum %d", packet.Width(), minLen),
		}
	}

	r := reader{bits: packet.LSBFirst()}

	if !bits.FromLSBFirst(r.take(ValidBitSize)).Equal(ValidBits) {
		return Packet{}, &MalformedPacketError{Reason: "missing valid marker"}
	}
	if err := r.frame("length"); err != nil {
		return Packet{}, err
	}
	length, _ := bits.FromLSBFirst(r.take(LenWidth)).Uint()
	if err := r.frame("id"); err != nil {
		return Packet{}, err
	}
	id, _ := bits.FromLSBFirst(r.take(IDWidth)).Uint()
	if err := r.frame("data"); err != nil {
		return Packet{}, err
	}

	if int(length) != packet.Width() {
		return Packet{}, &MalformedPacketError{
			Reason: fmt.Sprintf("length field %d disagrees with packet width %d", length, packet.Width()),
		}
	}

	value, err := r.unframe()
	if err != nil {
		return Packet{}, err
	}

	return Packet{ID: int(id), Value: value, Length: int(length)}, nil
}

type reader struct {
	bits []bool
	pos  int
}

func (r *reader) take(n int) []bool {
	out := r.bits[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *reader) frame(before string) error {
	if r.bits[r.pos] != FrameBit {
		return &MalformedPacketError{
			Reason: fmt.Sprintf("frame bit before %s field at offset %d is set", before, r.pos),
		}
	}
	r.pos++
	return nil
}

func (r *reader) unframe() (bits.Vector, error) {
	remaining := len(r.bits) - r.pos

	width := -1
	for w := 1; FramedDataLen(w) <= remaining; w++ {
		if FramedDataLen(w) == remaining {
			width = w
			break
		}
	}
	if width < 0 {
		return nil, &MalformedPacketError{
			Reason: fmt.Sprintf("%d payload bits cannot hold framed data", remaining),
		}
	}

	data := make([]bool, 0, width)
	for len(data) < width {
		data = append(data, r.take(1)[0])
		if len(data)%DataFrameLen == 0 {
			if err := r.frame("next data byte"); err != nil {
				return nil, err
			}
		}
	}
	if err := r.frame("end of packet"); err != nil {
		return nil, err
	}

	return bits.FromLSBFirst(data), nil
}
