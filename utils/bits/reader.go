// Package bits provides MSB-first bit extraction over an immutable byte buffer.
//
//nolint:mnd,gosec // bit and byte arithmetic.
package bits

import (
	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
)

// MaxLiteralBits is the widest literal ReadBits accepts.
const MaxLiteralBits = 32

// Reader reads bits most-significant first. It never modifies the buffer.
type Reader struct {
	data []byte
	pos  int // bit cursor
}

// NewReader creates a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (bit uint, err error) {
	if r.pos >= len(r.data)*8 {
		err = errors.Wrapf(vp9parser.ErrOutOfData, "bits: read at bit %d of %d-byte buffer", r.pos, len(r.data))
		return
	}
	bit = uint(r.data[r.pos>>3]>>(7-uint(r.pos&7))) & 1
	r.pos++
	return
}

// ReadBool reads one bit as a flag.
func (r *Reader) ReadBool() (flag bool, err error) {
	var bit uint
	if bit, err = r.ReadBit(); err != nil {
		return
	}
	return bit == 1, nil
}

// ReadBits reads an n-bit unsigned big-endian literal. n == 0 returns 0 and consumes nothing.
// On failure the cursor is left where it was.
func (r *Reader) ReadBits(n int) (value uint, err error) {
	if n < 0 || n > MaxLiteralBits {
		err = errors.Errorf("bits: literal width %d out of range", n)
		return
	}
	if r.pos+n > len(r.data)*8 {
		err = errors.Wrapf(vp9parser.ErrOutOfData, "bits: %d-bit literal at bit %d of %d-byte buffer", n, r.pos, len(r.data))
		return
	}
	var bit uint
	for i := 0; i < n; i++ {
		if bit, err = r.ReadBit(); err != nil {
			return
		}
		value = value<<1 | bit
	}
	return
}

// ReadSigned reads an n-bit magnitude followed by a sign bit (su(n)).
func (r *Reader) ReadSigned(n int) (value int, err error) {
	var magnitude uint
	if magnitude, err = r.ReadBits(n); err != nil {
		return
	}
	var negative bool
	if negative, err = r.ReadBool(); err != nil {
		return
	}
	value = int(magnitude)
	if negative {
		value = -value
	}
	return
}

// Position returns the number of bits consumed.
func (r *Reader) Position() int {
	return r.pos
}

// BytePosition returns the number of bytes touched, counting a partial byte as whole.
func (r *Reader) BytePosition() int {
	return (r.pos + 7) >> 3
}

// Aligned reports whether the cursor sits on a byte boundary.
func (r *Reader) Aligned() bool {
	return r.pos&7 == 0
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.data)*8 - r.pos
}

// TrailingBits consumes zero bits up to the next byte boundary.
func (r *Reader) TrailingBits() (err error) {
	var bit uint
	for !r.Aligned() {
		if bit, err = r.ReadBit(); err != nil {
			return
		}
		if bit != 0 {
			return errors.Wrapf(vp9parser.ErrInvalidHeader, "bits: non-zero padding bit at %d", r.pos-1)
		}
	}
	return
}
