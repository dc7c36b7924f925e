package ivf

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser/utils/bits/pio"
	"github.com/ugparu/vp9parser/utils/logger"
)

const frameCountOffset = 24

// Muxer writes an IVF stream. When the destination is an io.WriteSeeker the frame
// count in the file header is patched on Close.
type Muxer struct {
	writer         io.Writer
	bufferedWriter *bufio.Writer
	header         Header
	headerWritten  bool
	frames         uint32
}

// NewMuxer prepares a muxer for h. The header's HeaderLength and FrameCount are ignored.
func NewMuxer(w io.Writer, h Header) *Muxer {
	h.Version = 0
	h.HeaderLength = HeaderSize
	return &Muxer{
		writer:         w,
		bufferedWriter: bufio.NewWriterSize(w, pio.RecommendBufioSize),
		header:         h,
	}
}

// WriteHeader writes the file header. WritePacket calls it when needed.
func (mux *Muxer) WriteHeader() error {
	if mux.headerWritten {
		return nil
	}
	if len(mux.header.FourCC) != 4 { //nolint:mnd // fourcc length
		return errors.Errorf("ivf: fourcc %q must be four bytes", mux.header.FourCC)
	}
	var b [HeaderSize]byte
	mux.header.marshal(b[:])
	if _, err := mux.bufferedWriter.Write(b[:]); err != nil {
		return errors.Wrap(err, "ivf: write header")
	}
	mux.headerWritten = true
	return nil
}

// WritePacket appends one chunk with the given timestamp in timebase units.
func (mux *Muxer) WritePacket(pts uint64, payload []byte) error {
	if err := mux.WriteHeader(); err != nil {
		return err
	}
	var b [ChunkHeaderSize]byte
	pio.PutU32LE(b[0:], uint32(len(payload))) //nolint:gosec // chunks are capped far below 4 GiB
	pio.PutU64LE(b[4:], pts)
	if _, err := mux.bufferedWriter.Write(b[:]); err != nil {
		return errors.Wrapf(err, "ivf: write chunk %d", mux.frames)
	}
	if _, err := mux.bufferedWriter.Write(payload); err != nil {
		return errors.Wrapf(err, "ivf: write chunk %d", mux.frames)
	}
	mux.frames++
	return nil
}

// Frames returns the number of chunks written.
func (mux *Muxer) Frames() uint32 {
	return mux.frames
}

// Close flushes buffered data and records the final frame count when the writer can seek.
func (mux *Muxer) Close() error {
	if err := mux.WriteHeader(); err != nil {
		return err
	}
	if err := mux.bufferedWriter.Flush(); err != nil {
		return errors.Wrap(err, "ivf: flush")
	}

	ws, ok := mux.writer.(io.WriteSeeker)
	if !ok {
		logger.Debugf(mux, "Writer cannot seek, frame count left at %d", mux.header.FrameCount)
		return nil
	}
	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "ivf: seek")
	}
	if _, err = ws.Seek(frameCountOffset, io.SeekStart); err != nil {
		return errors.Wrap(err, "ivf: seek")
	}
	var b [4]byte
	pio.PutU32LE(b[:], mux.frames)
	if _, err = ws.Write(b[:]); err != nil {
		return errors.Wrap(err, "ivf: patch frame count")
	}
	_, err = ws.Seek(end, io.SeekStart)
	return errors.Wrap(err, "ivf: seek")
}

func (mux *Muxer) String() string {
	return "IVF_MUXER"
}
