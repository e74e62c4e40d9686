// Package bits provides the fixed-width bit vector shared by the codec, the
// bitstream assembler and the reference builder.
//
// A Vector is stored most-significant bit first, the same order in which a
// binary literal is written. Index 0 is the MSB, index Width()-1 is the LSB.
// Shifting a vector into the configuration network starts from the LSB end.
package bits

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Vector is an ordered sequence of bits, MSB first.
type Vector []bool

// Zeros returns a vector of n zero bits.
func Zeros(n int) Vector {
	return make(Vector, n)
}

// Ones returns a vector of n one bits.
func Ones(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Parse reads a binary literal such as "0101" or "0_1010_1010". Underscores
// are accepted as visual separators and carry no bits.
func Parse(s string) (Vector, error) {
	v := make(Vector, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			v = append(v, false)
		case '1':
			v = append(v, true)
		case '_':
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d in %q", c, i, s)
		}
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("empty bit string %q", s)
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromUint encodes value as an unsigned binary number of exactly width bits.
// It fails if the value does not fit.
func FromUint(value uint64, width int) (Vector, error) {
	if width < 0 {
		return nil, fmt.Errorf("negative width %d", width)
	}
	if width < 64 && value>>uint(width) != 0 {
		return nil, fmt.Errorf("value %d does not fit in %d bits", value, width)
	}

	v := make(Vector, width)
	for i := 0; i < width && i < 64; i++ {
		v[width-1-i] = value&(1<<uint(i)) != 0
	}
	return v, nil
}

// Random draws a vector of the given width with every one of the 2^width
// values equally likely.
func Random(r *rand.Rand, width int) Vector {
	v := make(Vector, width)
	var chunk uint64
	for i := 0; i < width; i++ {
		if i%64 == 0 {
			chunk = r.Uint64()
		}
		v[width-1-i] = chunk&1 == 1
		chunk >>= 1
	}
	return v
}

// Concat joins vectors so that the first argument ends up most significant.
func Concat(parts ...Vector) Vector {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make(Vector, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Width returns the number of bits.
func (v Vector) Width() int {
	return len(v)
}

// Uint interprets the vector as an unsigned binary number.
func (v Vector) Uint() (uint64, error) {
	if len(v) > 64 {
		for _, b := range v[:len(v)-64] {
			if b {
				return 0, fmt.Errorf("%d-bit value overflows uint64", len(v))
			}
		}
	}

	var out uint64
	for _, b := range v {
		out <<= 1
		if b {
			out |= 1
		}
	}
	return out, nil
}

// Equal reports whether both vectors hold the same bits at the same width.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// LSBFirst returns the bits in shift order, least significant first.
func (v Vector) LSBFirst() []bool {
	out := make([]bool, len(v))
	for i := range v {
		out[i] = v[len(v)-1-i]
	}
	return out
}

// FromLSBFirst is the inverse of LSBFirst.
func FromLSBFirst(b []bool) Vector {
	v := make(Vector, len(b))
	for i := range b {
		v[len(b)-1-i] = b[i]
	}
	return v
}

// String renders the vector as a binary literal without separators.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
