package protocol

import "fmt"

// FieldOverflowError indicates that an id, a packet length or a value cannot
// be carried by its fixed-width wire field.
type FieldOverflowError struct {
	// Field is one of "id", "length" or "value".
	Field string

	// NodeID is the id of the node the packet targets.
	NodeID int

	// Value is the offending quantity (id, length or value width).
	Value int

	// Limit is the largest quantity the field accepts.
	Limit int
}

func (e *FieldOverflowError) Error() string {
	switch e.Field {
	case "value":
		return fmt.Sprintf("node %d: value width %d does not match field width %d",
			e.NodeID, e.Value, e.Limit)
	default:
		return fmt.Sprintf("node %d: %s %d does not fit in its field (max %d)",
			e.NodeID, e.Field, e.Value, e.Limit)
	}
}

// MalformedPacketError indicates that a bit sequence is not a packet this
// codec could have produced.
type MalformedPacketError struct {
	Reason string
}

func (e *MalformedPacketError) Error() string {
	return "malformed packet: " + e.Reason
}
