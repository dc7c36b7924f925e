// Package ivf reads and writes IVF, the minimal raw-frame container used for VP8 and VP9
// elementary streams.
package ivf

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/codec"
	"github.com/ugparu/vp9parser/utils/bits/pio"
)

const (
	Signature       = "DKIF"
	HeaderSize      = 32
	ChunkHeaderSize = 12

	// maxFrameSize bounds a single chunk, matching the libvpx reader.
	maxFrameSize = 256 << 20
)

// Header is the 32-byte IVF file header.
type Header struct {
	Version      uint16
	HeaderLength uint16
	FourCC       string
	Width        uint16
	Height       uint16
	Rate         uint32 // timebase denominator
	Scale        uint32 // timebase numerator
	FrameCount   uint32 // informational only
}

func (h Header) String() string {
	return fmt.Sprintf("IVF_HEADER fourcc=%s size=%dx%d timebase=%d/%d frames=%d",
		h.FourCC, h.Width, h.Height, h.Scale, h.Rate, h.FrameCount)
}

// Timestamp converts a chunk timestamp in timebase units into a duration. Results past
// the range of time.Duration saturate.
func (h Header) Timestamp(pts uint64) time.Duration {
	if h.Rate == 0 {
		return 0
	}
	rate := uint64(h.Rate)
	hi, lo := bits.Mul64(pts, uint64(h.Scale))
	if hi >= rate {
		return math.MaxInt64
	}
	sec, rem := bits.Div64(hi, lo, rate)
	if sec > uint64(math.MaxInt64/time.Second)-1 {
		return math.MaxInt64
	}
	return time.Duration(sec)*time.Second + time.Duration(rem*uint64(time.Second)/rate) //nolint:gosec // rem < rate
}

func parseHeader(b []byte) (h Header, err error) {
	if string(b[0:4]) != Signature {
		err = invalidContainer("signature %q", b[0:4])
		return
	}
	h.Version = pio.U16LE(b[4:])
	if h.Version != 0 {
		err = invalidContainer("version %d", h.Version)
		return
	}
	h.HeaderLength = pio.U16LE(b[6:])
	if h.HeaderLength < HeaderSize {
		err = invalidContainer("header length %d", h.HeaderLength)
		return
	}
	h.FourCC = string(b[8:12])
	h.Width = pio.U16LE(b[12:])
	h.Height = pio.U16LE(b[14:])
	h.Rate = pio.U32LE(b[16:])
	h.Scale = pio.U32LE(b[20:])
	h.FrameCount = pio.U32LE(b[24:])
	return
}

func (h Header) marshal(b []byte) {
	copy(b[0:4], Signature)
	pio.PutU16LE(b[4:], h.Version)
	pio.PutU16LE(b[6:], HeaderSize)
	copy(b[8:12], h.FourCC)
	pio.PutU16LE(b[12:], h.Width)
	pio.PutU16LE(b[14:], h.Height)
	pio.PutU32LE(b[16:], h.Rate)
	pio.PutU32LE(b[20:], h.Scale)
	pio.PutU32LE(b[24:], h.FrameCount)
	pio.PutU32LE(b[28:], 0)
}

// Packet is one IVF chunk. It is never modified after the demuxer returns it.
type Packet struct {
	Payload []byte
	Pts     uint64
	Time    time.Duration
	Index   uint32
}

func (pkt *Packet) Timestamp() time.Duration {
	return pkt.Time
}

func (pkt *Packet) PTS() uint64 {
	return pkt.Pts
}

func (pkt *Packet) Data() []byte {
	return pkt.Payload
}

func (pkt *Packet) String() string {
	return fmt.Sprintf("IVF_PACKET idx=%d pts=%d ts=%v size=%d", pkt.Index, pkt.Pts, pkt.Time, len(pkt.Payload))
}

// StreamParameters describes the stream as declared by the IVF header alone.
type StreamParameters struct {
	codec.VideoParameters
	FourCC string
}

func newStreamParameters(h Header) *StreamParameters {
	return &StreamParameters{
		VideoParameters: codec.VideoParameters{
			BaseParameters: codec.BaseParameters{CodecType: vp9parser.CodecTypeFromFourCC(h.FourCC)},
			FrameWidth:     uint(h.Width),
			FrameHeight:    uint(h.Height),
			FrameRate:      codec.FrameRate(h.Rate, h.Scale),
		},
		FourCC: h.FourCC,
	}
}

func (par *StreamParameters) Tag() string {
	return par.FourCC
}

func (par *StreamParameters) String() string {
	return fmt.Sprintf("IVF_STREAM_PARAMETERS fourcc=%s codec=%v size=%dx%d fps=%d",
		par.FourCC, par.Type(), par.Width(), par.Height(), par.FPS())
}

var (
	_ vp9parser.Packet               = (*Packet)(nil)
	_ vp9parser.VideoCodecParameters = (*StreamParameters)(nil)
)
