package vp9

import (
	"errors"
	"fmt"

	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/utils/bits"
	"github.com/ugparu/vp9parser/utils/logger"
)

// streamState is everything a frame inherits from the frames before it. It holds only
// values, so assignment takes a snapshot.
type streamState struct {
	contexts ProbabilityContext
	refs     ReferenceSlots
	seg      SegmentationState
	lf       LoopFilterState
	color    ColorConfig
	last     PreviousFrame
}

func newStreamState() streamState {
	st := streamState{contexts: NewProbabilityContext()}
	st.lf.Reset()
	st.last.FrameType = NonKeyFrame
	return st
}

// PreviousFrame is what a frame can see of the last coded frame accepted before it.
// show_existing_frame references do not change it.
type PreviousFrame struct {
	Valid     bool
	FrameType FrameType
	IntraOnly bool
	ShowFrame bool
	Width     uint32
	Height    uint32
}

// FrameKind tells coded frames from show_existing_frame references.
type FrameKind uint8

const (
	CodedFrame FrameKind = iota
	ExistingFrame
)

func (k FrameKind) String() string {
	if k == ExistingFrame {
		return "EXISTING"
	}
	return "CODED"
}

// Adaptation tells a decoder whether it must run count based adaptation after decoding
// the frame, and which context slot receives the result.
type Adaptation struct {
	ErrorResilient        bool
	FrameParallelDecoding bool
	RefreshFrameContext   bool
	FrameContextIdx       uint8
	Required              bool
}

// ParsedFrame is the result of parsing one frame.
type ParsedFrame struct {
	Kind         FrameKind
	ExistingSlot uint8 // valid for ExistingFrame

	Header     FrameHeader
	Compressed CompressedHeader
	// Probabilities are the active context after forward updates.
	Probabilities ProbabilityTables
	// References are the slots named by RefFrameIdx as they were before this frame.
	References [RefsPerFrame]RefSlot

	UncompressedHeaderSize int
	CompressedHeaderSize   int
	Tiles                  []Tile
	Data                   []byte

	Adaptation Adaptation
	// Previous describes the coded frame accepted before this one.
	Previous PreviousFrame
}

// UsePrevFrameMvs reports whether the decoder may read motion vectors of the previous frame.
func (f *ParsedFrame) UsePrevFrameMvs() bool {
	h := &f.Header
	prev := &f.Previous
	return f.Kind == CodedFrame && prev.Valid && !h.ErrorResilientMode &&
		h.Width == prev.Width && h.Height == prev.Height && !prev.IntraOnly && prev.ShowFrame
}

// FrameError reports a frame of a packet that was skipped.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("vp9: frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Parser parses the frames of one VP9 stream in order. It is not safe for concurrent use;
// independent streams use independent parsers.
type Parser struct {
	state  streamState
	params []vp9parser.InputParameter
	frames uint64
}

// NewParser returns a parser in the initial stream state.
func NewParser(params ...vp9parser.InputParameter) *Parser {
	return &Parser{
		state:  newStreamState(),
		params: params,
	}
}

// ParsePacket parses every frame of a packet. Frames that fail are skipped and reported
// as *FrameError values joined into err; the returned frames are the ones accepted.
func (p *Parser) ParsePacket(data []byte) (frames []ParsedFrame, err error) {
	if len(data) == 0 {
		logger.Tracef(p, "Empty packet, no frames")
		return nil, nil
	}
	parts := [][]byte{data}
	if !vp9parser.HasParameter(p.params, vp9parser.NoSuperframes) {
		if parts, err = SplitSuperframe(data); err != nil {
			return nil, &FrameError{Index: 0, Err: vp9parser.HeaderError(err)}
		}
	}

	var errs []error
	frames = make([]ParsedFrame, 0, len(parts))
	for i, part := range parts {
		frame, ferr := p.ParseFrame(part)
		if ferr != nil {
			logger.Warningf(p, "Skipping frame %d of %d: %v", i, len(parts), ferr)
			errs = append(errs, &FrameError{Index: i, Err: ferr})
			continue
		}
		frames = append(frames, frame)
	}
	return frames, errors.Join(errs...)
}

// ParseFrame parses a single frame. Stream state changes only if the whole frame parses.
func (p *Parser) ParseFrame(data []byte) (frame ParsedFrame, err error) {
	scratch := p.state
	tiles := !vp9parser.HasParameter(p.params, vp9parser.NoTileLayout)
	if frame, err = scratch.parseFrame(data, tiles); err != nil {
		return ParsedFrame{}, vp9parser.HeaderError(err)
	}
	p.state = scratch
	p.frames++

	h := &frame.Header
	if frame.Kind == ExistingFrame {
		logger.Debugf(p, "Frame %d shows slot %d", p.frames, frame.ExistingSlot)
		return
	}
	logger.Debugf(p, "Frame %d accepted: %s %dx%d ctx=%d refresh=%08b updates=%d",
		p.frames, h.FrameType, h.Width, h.Height, h.FrameContextIdx, h.RefreshFrameFlags, frame.Compressed.Updates)
	return
}

func (st *streamState) parseFrame(data []byte, tiles bool) (f ParsedFrame, err error) {
	f.Previous = st.last
	r := bits.NewReader(data)
	if f.Header, err = st.parseUncompressedHeader(r); err != nil {
		return
	}
	h := &f.Header
	f.Data = data
	f.UncompressedHeaderSize = r.BytePosition()
	if h.ShowExistingFrame {
		f.Kind = ExistingFrame
		f.ExistingSlot = h.FrameToShowMapIdx
		return
	}

	end := f.UncompressedHeaderSize + int(h.HeaderSizeInBytes)
	if end > len(data) {
		err = invalidHeader("compressed header of %d bytes overruns %d-byte frame", h.HeaderSizeInBytes, len(data))
		return
	}
	if f.Probabilities, err = st.contexts.Select(int(h.FrameContextIdx)); err != nil {
		return
	}
	if f.Compressed, err = ParseCompressedHeader(data[f.UncompressedHeaderSize:end], h, &f.Probabilities); err != nil {
		return
	}
	f.CompressedHeaderSize = int(h.HeaderSizeInBytes)
	if tiles {
		if f.Tiles, err = parseTiles(h, data[end:], end); err != nil {
			return
		}
	}
	if !h.FrameIsIntra() {
		for i, idx := range h.RefFrameIdx {
			f.References[i] = st.refs[idx]
		}
	}
	f.Adaptation = Adaptation{
		ErrorResilient:        h.ErrorResilientMode,
		FrameParallelDecoding: h.FrameParallelDecodingMode,
		RefreshFrameContext:   h.RefreshFrameContext,
		FrameContextIdx:       h.FrameContextIdx,
		Required:              !h.ErrorResilientMode && !h.FrameParallelDecodingMode,
	}

	if h.RefreshFrameContext {
		if err = st.contexts.Commit(int(h.FrameContextIdx), &f.Probabilities); err != nil {
			return
		}
	}
	st.refs.Refresh(h)
	if h.FrameIsIntra() {
		st.color = h.Color
	}
	st.last = PreviousFrame{
		Valid:     true,
		FrameType: h.FrameType,
		IntraOnly: h.IntraOnly,
		ShowFrame: h.ShowFrame,
		Width:     h.Width,
		Height:    h.Height,
	}
	return
}

// CommitAdapted stores tables produced by count based adaptation into slot idx.
func (p *Parser) CommitAdapted(idx uint8, tables *ProbabilityTables) error {
	logger.Tracef(p, "Committing adapted probabilities to context %d", idx)
	return p.state.contexts.Commit(int(idx), tables)
}

// Contexts returns a snapshot of the four frame contexts.
func (p *Parser) Contexts() ProbabilityContext {
	return p.state.contexts
}

// References returns a snapshot of the reference slots.
func (p *Parser) References() ReferenceSlots {
	return p.state.refs
}

// Segmentation returns the persisted segmentation state.
func (p *Parser) Segmentation() SegmentationState {
	return p.state.seg
}

// Frames returns the number of frames accepted so far.
func (p *Parser) Frames() uint64 {
	return p.frames
}

// Reset returns the parser to the initial stream state.
func (p *Parser) Reset() {
	logger.Debug(p, "Resetting stream state")
	p.state = newStreamState()
	p.frames = 0
}

func (p *Parser) String() string {
	return "VP9_PARSER"
}
