// Package reader drives a VP9 IVF stream through the frame parser and hands out parsed
// frames with their presentation timestamps.
package reader

import (
	"errors"
	"fmt"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/codec/vp8"
	"github.com/ugparu/vp9parser/codec/vp9"
	"github.com/ugparu/vp9parser/format/ivf"
	"github.com/ugparu/vp9parser/utils/logger"
)

// State is the stream state of a Reader.
type State uint8

const (
	Uninitialized State = iota
	Ready
	Faulted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Ready:
		return "READY"
	case Faulted:
		return "FAULTED"
	}
	return "INVALID"
}

// Frame is a parsed frame together with the packet it came from.
type Frame struct {
	vp9.ParsedFrame
	Packet    uint32        // index of the IVF chunk
	PTS       uint64        // raw chunk timestamp
	Timestamp time.Duration // presentation time relative to the first chunk
}

func (f *Frame) String() string {
	if f.Kind == vp9.ExistingFrame {
		return fmt.Sprintf("FRAME pkt=%d ts=%v show_existing=%d", f.Packet, f.Timestamp, f.ExistingSlot)
	}
	h := &f.Header
	return fmt.Sprintf("FRAME pkt=%d ts=%v type=%s show=%t size=%dx%d q=%d ctx=%d refresh=%08b tiles=%dx%d",
		f.Packet, f.Timestamp, h.FrameType, h.ShowFrame, h.Width, h.Height, h.Quant.BaseQIdx,
		h.FrameContextIdx, h.RefreshFrameFlags, h.TileCols(), h.TileRows())
}

// Reader parses one IVF stream. It is not safe for concurrent use.
type Reader struct {
	dmx     *ivf.Demuxer
	parser  *vp9.Parser
	state   State
	fault   error
	stream  vp9parser.VideoCodecParameters
	params  *vp9.CodecParameters
	offsets offsetHandler
	name    string
}

// New reads an IVF stream from r.
func New(r io.Reader, params ...vp9parser.InputParameter) *Reader {
	return newReader(ivf.NewDemuxer(r), "READER", params)
}

// Open reads the IVF file at path.
func Open(path string, params ...vp9parser.InputParameter) (*Reader, error) {
	dmx, err := ivf.Open(path)
	if err != nil {
		return nil, err
	}
	return newReader(dmx, "READER "+path, params), nil
}

func newReader(dmx *ivf.Demuxer, name string, params []vp9parser.InputParameter) *Reader {
	return &Reader{
		dmx:    dmx,
		parser: vp9.NewParser(params...),
		state:  Uninitialized,
		name:   name,
	}
}

// Init parses the container header. VP8 streams are inspected for their parameters and
// refused with ErrUnsupportedProfile.
func (rdr *Reader) Init() (vp9parser.VideoCodecParameters, error) {
	switch rdr.state {
	case Ready:
		return rdr.Parameters(), nil
	case Faulted:
		return rdr.stream, rdr.fault
	}

	par, err := rdr.dmx.Demux()
	if err != nil {
		return nil, rdr.setFault(err)
	}
	rdr.stream = par
	logger.Infof(rdr, "Demuxer started: %v", rdr.dmx.Header())

	switch par.Type() {
	case vp9parser.VP9:
	case vp9parser.VP8:
		return rdr.describeVP8(par)
	default:
		return par, rdr.setFault(pkgerrors.Wrapf(vp9parser.ErrUnsupportedProfile,
			"reader: fourcc %q is not VP9", par.Tag()))
	}

	rdr.state = Ready
	return par, nil
}

func (rdr *Reader) describeVP8(par vp9parser.VideoCodecParameters) (vp9parser.VideoCodecParameters, error) {
	pkt, err := rdr.dmx.ReadChunk()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = pkgerrors.Wrap(vp9parser.ErrUnsupportedProfile, "reader: empty VP8 stream")
		}
		return par, rdr.setFault(err)
	}
	fh, err := vp8.ParseFrameHeader(pkt.Payload)
	if err != nil {
		return par, rdr.setFault(pkgerrors.Wrapf(vp9parser.ErrUnsupportedProfile, "reader: VP8 stream: %v", err))
	}
	if fh.KeyFrame {
		rdr.stream = vp8.NewCodecParameters(fh, par.FPS())
	}
	logger.Infof(rdr, "Stream is %v", rdr.stream)
	return rdr.stream, rdr.setFault(pkgerrors.Wrap(vp9parser.ErrUnsupportedProfile, "reader: VP8 stream"))
}

func (rdr *Reader) setFault(err error) error {
	rdr.state = Faulted
	rdr.fault = err
	logger.Errorf(rdr, "Stream faulted: %v", err)
	return err
}

// ReadFrames parses the next IVF chunk and returns its frames. At the end of the stream it
// returns io.EOF. Frames that fail to parse are reported in err, joined as *vp9.FrameError
// values, and the stream stays usable. Container errors move the reader to Faulted and every
// later call returns the same error.
func (rdr *Reader) ReadFrames() ([]Frame, error) {
	if rdr.state == Uninitialized {
		if _, err := rdr.Init(); err != nil {
			return nil, err
		}
	}
	if rdr.state == Faulted {
		return nil, rdr.fault
	}

	pkt, err := rdr.dmx.ReadChunk()
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Debugf(rdr, "End of stream after %d frames", rdr.parser.Frames())
			return nil, io.EOF
		}
		return nil, rdr.setFault(err)
	}

	parsed, perr := rdr.parser.ParsePacket(pkt.Payload)
	ts := rdr.offsets.apply(pkt.Time)
	frames := make([]Frame, 0, len(parsed))
	for _, pf := range parsed {
		frames = append(frames, Frame{
			ParsedFrame: pf,
			Packet:      pkt.Index,
			PTS:         pkt.Pts,
			Timestamp:   ts,
		})
		rdr.updateParameters(&pf)
	}
	if perr != nil {
		logger.Warningf(rdr, "Packet %d: %v", pkt.Index, perr)
	}
	return frames, perr
}

func (rdr *Reader) updateParameters(pf *vp9.ParsedFrame) {
	if pf.Kind != vp9.CodedFrame || !pf.Header.FrameIsIntra() {
		return
	}
	h := &pf.Header
	if rdr.params != nil && uint(h.Width) == rdr.params.Width() && uint(h.Height) == rdr.params.Height() {
		return
	}
	rdr.params = vp9.NewCodecParameters(h, rdr.stream.FPS())
	logger.Infof(rdr, "Stream parameters: %v", rdr.params)
}

// State returns the current stream state.
func (rdr *Reader) State() State {
	return rdr.state
}

// Err returns the error that faulted the stream, if any.
func (rdr *Reader) Err() error {
	return rdr.fault
}

// Parameters returns the VP9 parameters derived from the latest intra frame, or the
// container's parameters before one has been parsed.
func (rdr *Reader) Parameters() vp9parser.VideoCodecParameters {
	if rdr.params != nil {
		return rdr.params
	}
	return rdr.stream
}

// Parser exposes the frame parser, for CommitAdapted and state snapshots.
func (rdr *Reader) Parser() *vp9.Parser {
	return rdr.parser
}

// Header returns the IVF file header.
func (rdr *Reader) Header() ivf.Header {
	return rdr.dmx.Header()
}

func (rdr *Reader) Close() {
	logger.Debugf(rdr, "Closing reader")
	rdr.dmx.Close()
}

func (rdr *Reader) String() string {
	return rdr.name
}
