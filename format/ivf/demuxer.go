package ivf

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/utils/bits/pio"
	"github.com/ugparu/vp9parser/utils/logger"
)

// Demuxer yields the chunks of an IVF stream in file order. It cannot be rewound;
// reopen the source to read it again.
type Demuxer struct {
	r        io.Reader
	closer   io.Closer
	header   Header
	params   *StreamParameters
	started  bool
	done     bool
	frames   uint32
	consumed int64
	chunk    [ChunkHeaderSize]byte
	name     string
}

// NewDemuxer reads an IVF stream from r.
func NewDemuxer(r io.Reader) *Demuxer {
	dmx := &Demuxer{name: "IVF_DEMUXER"}
	dmx.r = r
	if c, ok := r.(io.Closer); ok {
		dmx.closer = c
	}
	return dmx
}

// Open opens an IVF file for demuxing.
func Open(path string) (*Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dmx := NewDemuxer(bufio.NewReaderSize(f, pio.RecommendBufioSize))
	dmx.closer = f
	dmx.name = "IVF_DEMUXER " + path
	return dmx, nil
}

// Demux reads and validates the file header. It must be called once before ReadPacket.
func (dmx *Demuxer) Demux() (vp9parser.VideoCodecParameters, error) {
	if dmx.started {
		return dmx.params, nil
	}

	var b [HeaderSize]byte
	n, err := io.ReadFull(dmx.r, b[:])
	dmx.consumed += int64(n)
	if err != nil {
		return nil, invalidContainer("file header: %d of %d bytes: %v", n, HeaderSize, err)
	}
	if dmx.header, err = parseHeader(b[:]); err != nil {
		return nil, err
	}

	if extra := int64(dmx.header.HeaderLength) - HeaderSize; extra > 0 {
		skipped, err := io.CopyN(io.Discard, dmx.r, extra)
		dmx.consumed += skipped
		if err != nil {
			return nil, invalidContainer("header length %d exceeds file", dmx.header.HeaderLength)
		}
	}

	dmx.started = true
	dmx.params = newStreamParameters(dmx.header)
	logger.Debugf(dmx, "Parsed %v", dmx.header)
	return dmx.params, nil
}

// ReadPacket reads the next chunk. It returns io.EOF once the stream ends on a chunk boundary
// and ErrTruncatedContainer when the last chunk is cut short.
func (dmx *Demuxer) ReadPacket() (vp9parser.Packet, error) {
	pkt, err := dmx.ReadChunk()
	if err != nil {
		return nil, err
	}
	return pkt, nil
}

// ReadChunk is ReadPacket with the concrete packet type.
func (dmx *Demuxer) ReadChunk() (*Packet, error) {
	if !dmx.started {
		if _, err := dmx.Demux(); err != nil {
			return nil, err
		}
	}

	n, err := io.ReadFull(dmx.r, dmx.chunk[:])
	dmx.consumed += int64(n)
	switch {
	case errors.Is(err, io.EOF):
		if !dmx.done && dmx.frames != dmx.header.FrameCount {
			logger.Warningf(dmx, "Header declares %d frames, stream holds %d", dmx.header.FrameCount, dmx.frames)
		}
		dmx.done = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, truncatedContainer("chunk %d header: %d of %d bytes", dmx.frames, n, ChunkHeaderSize)
	case err != nil:
		return nil, err
	}

	size := pio.U32LE(dmx.chunk[0:])
	if size > maxFrameSize {
		return nil, invalidContainer("chunk %d size %d", dmx.frames, size)
	}
	pkt := &Packet{
		Payload: make([]byte, size),
		Pts:     pio.U64LE(dmx.chunk[4:]),
		Index:   dmx.frames,
	}
	pkt.Time = dmx.header.Timestamp(pkt.Pts)

	n, err = io.ReadFull(dmx.r, pkt.Payload)
	dmx.consumed += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, truncatedContainer("chunk %d: %d of %d payload bytes", dmx.frames, n, size)
		}
		return nil, err
	}

	dmx.frames++
	logger.Tracef(dmx, "Read %v", pkt)
	return pkt, nil
}

// Header returns the parsed file header.
func (dmx *Demuxer) Header() Header {
	return dmx.header
}

// Consumed returns the number of bytes read from the source so far.
func (dmx *Demuxer) Consumed() int64 {
	return dmx.consumed
}

func (dmx *Demuxer) Close() {
	if dmx.closer != nil {
		if err := dmx.closer.Close(); err != nil {
			logger.Warningf(dmx, "Close failed: %v", err)
		}
		dmx.closer = nil
	}
}

func (dmx *Demuxer) String() string {
	return dmx.name
}

var _ vp9parser.Demuxer = (*Demuxer)(nil)
