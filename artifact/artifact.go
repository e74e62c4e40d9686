// Package artifact renders the test vector and the probe file consumed by the
// HDL testbench.
package artifact

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/cfgnet/bits"
	"github.com/sarchlab/cfgnet/bitstream"
	"github.com/sarchlab/cfgnet/protocol"
	"github.com/sarchlab/cfgnet/reference"
)

// Gap separates adjacent packets of the rendered test vector and the first
// packet from the preamble. Sep separates the fields inside a packet. Neither
// is part of the bitstream.
const (
	Gap = "__"
	Sep = "_"
)

var probeHeader = []string{
	"# This is a file with all config_node IDs and their expect output sequences in testbench.",
	"# The ID value of each config_node is given in decimal after \"config id: \".",
	"# The number of test sets for a config_node is given in decimal after \"test sets: \".",
	"# Below the ID line come expected configuration value change sequences in binary after \"reference: \".",
	"# Each line is an expected output string and the first reference is the reset value of that config_node.",
	"# Binary values of two adjacent reference lines are not allowed to be identical.",
	"# ",
	"# The instance of config_node_bind module reads this file and test simulation outputs using this file's outputs as reference.",
	"# Parsing of this file in VCS simulation is based on the first letter of each line.",
	"# If this file becomes more complex in syntax, the parser should also be extended.",
}

// WriteVector writes the test vector as one line of binary digits, most
// significant bit first. Packets are separated by Gap, and every field and
// frame bit inside a packet by Sep.
func WriteVector(w io.Writer, bs *bitstream.Bitstream) error {
	parts := make([]string, 0, len(bs.Packets)+1)
	for i := len(bs.Packets) - 1; i >= 0; i-- {
		parts = append(parts, renderPacket(bs.Packets[i]))
	}
	parts = append(parts, bs.Bits[bs.Len()-bs.ResetLen:].String())

	if _, err := io.WriteString(w, strings.Join(parts, Gap)); err != nil {
		return fmt.Errorf("failed to write test vector: %w", err)
	}
	return nil
}

// renderPacket splits an encoded packet into its fields: the framed data,
// with every frame bit as a field of its own, then the header fields.
func renderPacket(p bits.Vector) string {
	framed := p.Width() - protocol.HeaderLen

	var fields []string
	run := 0
	for i := 0; i < framed; i++ {
		if !isFramePos(framed-1-i, framed) {
			run++
			continue
		}
		if run > 0 {
			fields = append(fields, p[i-run:i].String())
			run = 0
		}
		fields = append(fields, p[i:i+1].String())
	}
	if run > 0 {
		fields = append(fields, p[framed-run:framed].String())
	}

	pos := framed
	for _, n := range []int{
		protocol.FrameBitSize, protocol.IDWidth,
		protocol.FrameBitSize, protocol.LenWidth,
		protocol.FrameBitSize, protocol.ValidBitSize,
	} {
		fields = append(fields, p[pos:pos+n].String())
		pos += n
	}

	return strings.Join(fields, Sep)
}

// isFramePos reports whether the bit lsb positions above the least
// significant end of a framed data field of the given length is a frame bit.
func isFramePos(lsb, framed int) bool {
	stride := protocol.DataFrameLen + protocol.FrameBitSize
	return lsb == framed-1 || (lsb+1)%stride == 0
}

// ReadVector parses a rendered test vector, dropping the gap markers.
func ReadVector(r io.Reader) (bits.Vector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vector: %w", err)
	}

	v, err := bits.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("malformed test vector: %w", err)
	}
	return v, nil
}

// WriteProbe writes the expected value change sequence of every node in the
// reference table, ascending by id.
func WriteProbe(w io.Writer, table reference.Table) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(probeHeader, "\n"))
	for _, id := range table.IDs() {
		seq := table[id]
		fmt.Fprintf(bw, "\n\nconfig id: %d", id)
		fmt.Fprintf(bw, "\ntest sets: %d", len(seq))
		for _, v := range seq {
			fmt.Fprintf(bw, "\nreference: %s", v)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write probe file: %w", err)
	}
	return nil
}

// WriteVectorFile writes the test vector to path.
func WriteVectorFile(path string, bs *bitstream.Bitstream) error {
	return writeFile(path, func(w io.Writer) error { return WriteVector(w, bs) })
}

// WriteProbeFile writes the probe file to path.
func WriteProbeFile(path string, table reference.Table) error {
	return writeFile(path, func(w io.Writer) error { return WriteProbe(w, table) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
