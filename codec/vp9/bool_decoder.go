//nolint:mnd // arithmetic decoder constants.
package vp9

import (
	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
)

const (
	boolMinRange      = 128
	boolProbHalf      = 128
	boolUpdateProb    = 252
	boolValueBytes    = 2
	boolBitsPerRefill = 8
)

// BoolDecoder is the VP9 binary arithmetic decoder. It reads from a fixed byte range
// and pads with zeros past its end. One decoder serves one compressed header or tile.
type BoolDecoder struct {
	data     []byte
	pos      int    // next byte to shift in
	value    uint32 // 16-bit window
	rng      uint32 // in [128, 255] between calls
	bitCount int    // bits shifted since the last refill
	padded   int    // zero bytes supplied past the end of data
}

// NewBoolDecoder seeds a decoder from the first two bytes of data.
func NewBoolDecoder(data []byte) (*BoolDecoder, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(vp9parser.ErrInvalidHeader, "vp9: bool decoder over empty range")
	}
	d := &BoolDecoder{data: data, rng: 255}
	for i := 0; i < boolValueBytes; i++ {
		d.value = d.value<<8 | uint32(d.nextByte())
	}
	return d, nil
}

func (d *BoolDecoder) nextByte() byte {
	if d.pos < len(d.data) {
		b := d.data[d.pos]
		d.pos++
		return b
	}
	d.padded++
	return 0
}

// ReadBool decodes one binary symbol whose probability of being zero is prob/256.
func (d *BoolDecoder) ReadBool(prob uint8) bool {
	split := 1 + (((d.rng - 1) * uint32(prob)) >> 8)
	bigSplit := split << 8

	var bit bool
	if d.value >= bigSplit {
		bit = true
		d.rng -= split
		d.value -= bigSplit
	} else {
		d.rng = split
	}

	for d.rng < boolMinRange {
		d.value <<= 1
		d.rng <<= 1
		d.bitCount++
		if d.bitCount == boolBitsPerRefill {
			d.bitCount = 0
			d.value |= uint32(d.nextByte())
		}
	}
	return bit
}

// ReadBit decodes an equiprobable bit as 0 or 1.
func (d *BoolDecoder) ReadBit() uint {
	if d.ReadBool(boolProbHalf) {
		return 1
	}
	return 0
}

// ReadLiteral decodes n equiprobable bits, most significant first.
func (d *BoolDecoder) ReadLiteral(n int) uint {
	var v uint
	for i := 0; i < n; i++ {
		v = v<<1 | d.ReadBit()
	}
	return v
}

// ReadTree walks tree using probs[node>>1] at every internal node and returns the leaf symbol.
func (d *BoolDecoder) ReadTree(tree Tree, probs []uint8) (symbol int, err error) {
	var node TreeIndex
	for {
		idx := int(node)
		if idx+1 >= len(tree) || idx>>1 >= len(probs) {
			err = errors.Wrapf(vp9parser.ErrInvalidHeader, "vp9: tree node %d outside tree of %d entries", idx, len(tree))
			return
		}
		bit := 0
		if d.ReadBool(probs[idx>>1]) {
			bit = 1
		}
		node = tree[idx+bit]
		if node <= 0 {
			return int(-node), nil
		}
	}
}

// Exhausted reports whether the decoder has shifted in zero padding past the end of its range.
func (d *BoolDecoder) Exhausted() bool {
	return d.padded > 0
}

// Consumed returns the number of source bytes shifted into the decoder.
func (d *BoolDecoder) Consumed() int {
	return d.pos
}
