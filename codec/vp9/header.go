//nolint:mnd,gosec // bitstream field widths; literals are bounded by their bit counts.
package vp9

import (
	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/utils/bits"
)

// ColorConfig is the color_config syntax. Inter frames inherit it from the stream.
type ColorConfig struct {
	BitDepth     uint8
	ColorSpace   ColorSpace
	ColorRange   ColorRange
	SubsamplingX bool
	SubsamplingY bool
}

// Subsampling returns the chroma layout.
func (c ColorConfig) Subsampling() Subsampling {
	switch {
	case c.SubsamplingX && c.SubsamplingY:
		return Yuv420
	case c.SubsamplingX:
		return Yuv422
	case c.SubsamplingY:
		return Yuv440
	}
	return Yuv444
}

// FrameHeader is the uncompressed frame header together with the persisted loop filter
// and segmentation state it leaves behind.
type FrameHeader struct {
	Profile           Profile
	ShowExistingFrame bool
	FrameToShowMapIdx uint8

	FrameType          FrameType
	ShowFrame          bool
	ErrorResilientMode bool
	IntraOnly          bool
	ResetFrameContext  ResetFrameContext
	RefreshFrameFlags  uint8
	RefFrameIdx        [RefsPerFrame]uint8
	RefFrameSignBias   [MaxRefFrames]bool
	// RefScaleValid marks the references a block may predict from at this frame size.
	RefScaleValid [RefsPerFrame]bool

	Width        uint32
	Height       uint32
	RenderWidth  uint32
	RenderHeight uint32
	Color        ColorConfig

	AllowHighPrecisionMv bool
	InterpFilter         InterpolationFilter

	RefreshFrameContext       bool
	FrameParallelDecodingMode bool
	FrameContextIdx           uint8

	LoopFilter   LoopFilterState
	Quant        QuantizationParams
	Segmentation SegmentationState

	TileColsLog2 uint8
	TileRowsLog2 uint8

	HeaderSizeInBytes uint16
}

// FrameIsIntra reports whether the frame uses intra prediction only.
func (h *FrameHeader) FrameIsIntra() bool {
	return h.FrameType == KeyFrame || h.IntraOnly
}

// Lossless reports whether the frame is coded losslessly.
func (h *FrameHeader) Lossless() bool {
	return h.Quant.Lossless()
}

// MiCols returns the frame width in 8x8 mode info units.
func (h *FrameHeader) MiCols() uint32 {
	return (h.Width + 7) >> 3
}

// MiRows returns the frame height in 8x8 mode info units.
func (h *FrameHeader) MiRows() uint32 {
	return (h.Height + 7) >> 3
}

// Sb64Cols returns the frame width in 64x64 superblocks.
func (h *FrameHeader) Sb64Cols() uint32 {
	return (h.MiCols() + 7) >> 3
}

// Sb64Rows returns the frame height in 64x64 superblocks.
func (h *FrameHeader) Sb64Rows() uint32 {
	return (h.MiRows() + 7) >> 3
}

// TileCols returns the number of tile columns.
func (h *FrameHeader) TileCols() int {
	return 1 << h.TileColsLog2
}

// TileRows returns the number of tile rows.
func (h *FrameHeader) TileRows() int {
	return 1 << h.TileRowsLog2
}

func invalidHeader(format string, args ...any) error {
	return errors.Wrapf(vp9parser.ErrInvalidHeader, "vp9: "+format, args...)
}

func unsupportedProfile(format string, args ...any) error {
	return errors.Wrapf(vp9parser.ErrUnsupportedProfile, "vp9: "+format, args...)
}

func readFlag(r *bits.Reader, dst *bool) (err error) {
	*dst, err = r.ReadBool()
	return
}

func readU8(r *bits.Reader, n int, dst *uint8) (err error) {
	var v uint
	if v, err = r.ReadBits(n); err != nil {
		return
	}
	*dst = uint8(v)
	return
}

func readU32(r *bits.Reader, n int, dst *uint32) (err error) {
	var v uint
	if v, err = r.ReadBits(n); err != nil {
		return
	}
	*dst = uint32(v)
	return
}

// parseUncompressedHeader reads the uncompressed header and applies its side effects to st.
// st must be a scratch copy: it is left in an undefined state on error.
func (st *streamState) parseUncompressedHeader(r *bits.Reader) (h FrameHeader, err error) {
	var marker uint
	if marker, err = r.ReadBits(2); err != nil {
		return
	}
	if marker != frameMarker {
		err = invalidHeader("frame marker %d", marker)
		return
	}

	var lo, hi uint
	if lo, err = r.ReadBit(); err != nil {
		return
	}
	if hi, err = r.ReadBit(); err != nil {
		return
	}
	h.Profile = Profile(hi<<1 | lo)
	if h.Profile == Profile3 {
		if err = readReservedZero(r); err != nil {
			return
		}
	}

	if err = readFlag(r, &h.ShowExistingFrame); err != nil {
		return
	}
	if h.ShowExistingFrame {
		if err = readU8(r, 3, &h.FrameToShowMapIdx); err != nil {
			return
		}
		if !st.refs[h.FrameToShowMapIdx].Valid {
			err = invalidHeader("show existing frame from empty slot %d", h.FrameToShowMapIdx)
		}
		return
	}

	var frameType uint
	if frameType, err = r.ReadBit(); err != nil {
		return
	}
	h.FrameType = FrameType(frameType)
	if err = readFlag(r, &h.ShowFrame); err != nil {
		return
	}
	if err = readFlag(r, &h.ErrorResilientMode); err != nil {
		return
	}

	if h.FrameType == KeyFrame {
		if err = st.parseKeyFrame(r, &h); err != nil {
			return
		}
	} else if err = st.parseNonKeyFrame(r, &h); err != nil {
		return
	}

	if !h.ErrorResilientMode {
		if err = readFlag(r, &h.RefreshFrameContext); err != nil {
			return
		}
		if err = readFlag(r, &h.FrameParallelDecodingMode); err != nil {
			return
		}
	} else {
		h.RefreshFrameContext = false
		h.FrameParallelDecodingMode = true
	}
	if err = readU8(r, 2, &h.FrameContextIdx); err != nil {
		return
	}

	if h.FrameIsIntra() || h.ErrorResilientMode {
		if err = st.setupPastIndependence(&h); err != nil {
			return
		}
	}

	if err = st.lf.parse(r); err != nil {
		return
	}
	if err = h.Quant.parse(r); err != nil {
		return
	}
	if err = st.seg.parse(r); err != nil {
		return
	}
	h.LoopFilter = st.lf
	h.Segmentation = st.seg

	if err = h.parseTileInfo(r); err != nil {
		return
	}

	var size uint
	if size, err = r.ReadBits(16); err != nil {
		return
	}
	h.HeaderSizeInBytes = uint16(size)
	if err = r.TrailingBits(); err != nil {
		return
	}
	if h.HeaderSizeInBytes == 0 {
		err = invalidHeader("compressed header size is zero")
	}
	return
}

func readReservedZero(r *bits.Reader) error {
	bit, err := r.ReadBit()
	if err != nil {
		return err
	}
	if bit != 0 {
		return invalidHeader("reserved bit set")
	}
	return nil
}

func readSyncCode(r *bits.Reader) error {
	for _, want := range [...]uint{syncCode0, syncCode1, syncCode2} {
		got, err := r.ReadBits(8)
		if err != nil {
			return err
		}
		if got != want {
			return invalidHeader("frame sync code byte 0x%02x, want 0x%02x", got, want)
		}
	}
	return nil
}

func (st *streamState) parseKeyFrame(r *bits.Reader, h *FrameHeader) (err error) {
	if err = readSyncCode(r); err != nil {
		return
	}
	if err = h.parseColorConfig(r); err != nil {
		return
	}
	if err = h.parseFrameSize(r); err != nil {
		return
	}
	if err = h.parseRenderSize(r); err != nil {
		return
	}
	h.RefreshFrameFlags = 0xFF
	return
}

func (st *streamState) parseNonKeyFrame(r *bits.Reader, h *FrameHeader) (err error) {
	if !h.ShowFrame {
		if err = readFlag(r, &h.IntraOnly); err != nil {
			return
		}
	}
	if !h.ErrorResilientMode {
		var reset uint8
		if err = readU8(r, 2, &reset); err != nil {
			return
		}
		h.ResetFrameContext = ResetFrameContext(reset)
	}

	if h.IntraOnly {
		if err = readSyncCode(r); err != nil {
			return
		}
		if h.Profile > Profile0 {
			if err = h.parseColorConfig(r); err != nil {
				return
			}
		} else {
			h.Color = ColorConfig{
				BitDepth:     8,
				ColorSpace:   ColorSpaceBT601,
				SubsamplingX: true,
				SubsamplingY: true,
			}
		}
		if err = readU8(r, 8, &h.RefreshFrameFlags); err != nil {
			return
		}
		if err = h.parseFrameSize(r); err != nil {
			return
		}
		return h.parseRenderSize(r)
	}

	h.Color = st.color
	if err = readU8(r, 8, &h.RefreshFrameFlags); err != nil {
		return
	}
	for i := 0; i < RefsPerFrame; i++ {
		if err = readU8(r, 3, &h.RefFrameIdx[i]); err != nil {
			return
		}
		if err = readFlag(r, &h.RefFrameSignBias[LastFrame+i]); err != nil {
			return
		}
	}
	if err = st.parseFrameSizeWithRefs(r, h); err != nil {
		return
	}
	if err = st.refs.validate(h); err != nil {
		return
	}
	if err = readFlag(r, &h.AllowHighPrecisionMv); err != nil {
		return
	}
	return h.parseInterpFilter(r)
}

func (h *FrameHeader) parseColorConfig(r *bits.Reader) (err error) {
	c := &h.Color
	c.BitDepth = 8
	if h.Profile >= Profile2 {
		var twelve bool
		if err = readFlag(r, &twelve); err != nil {
			return
		}
		c.BitDepth = 10
		if twelve {
			c.BitDepth = 12
		}
	}

	var cs uint8
	if err = readU8(r, 3, &cs); err != nil {
		return
	}
	c.ColorSpace = ColorSpace(cs)
	oddProfile := h.Profile == Profile1 || h.Profile == Profile3

	if c.ColorSpace == ColorSpaceRGB {
		c.ColorRange = FullSwing
		if !oddProfile {
			return unsupportedProfile("RGB color in %s", h.Profile)
		}
		c.SubsamplingX, c.SubsamplingY = false, false
		return readReservedZero(r)
	}

	var full bool
	if err = readFlag(r, &full); err != nil {
		return
	}
	c.ColorRange = StudioSwing
	if full {
		c.ColorRange = FullSwing
	}
	if !oddProfile {
		c.SubsamplingX, c.SubsamplingY = true, true
		return
	}
	if err = readFlag(r, &c.SubsamplingX); err != nil {
		return
	}
	if err = readFlag(r, &c.SubsamplingY); err != nil {
		return
	}
	if c.SubsamplingX && c.SubsamplingY {
		return unsupportedProfile("4:2:0 color in %s", h.Profile)
	}
	return readReservedZero(r)
}

func (h *FrameHeader) parseFrameSize(r *bits.Reader) (err error) {
	if err = readU32(r, 16, &h.Width); err != nil {
		return
	}
	if err = readU32(r, 16, &h.Height); err != nil {
		return
	}
	h.Width++
	h.Height++
	return
}

func (h *FrameHeader) parseRenderSize(r *bits.Reader) (err error) {
	var different bool
	if err = readFlag(r, &different); err != nil {
		return
	}
	if !different {
		h.RenderWidth, h.RenderHeight = h.Width, h.Height
		return
	}
	if err = readU32(r, 16, &h.RenderWidth); err != nil {
		return
	}
	if err = readU32(r, 16, &h.RenderHeight); err != nil {
		return
	}
	h.RenderWidth++
	h.RenderHeight++
	return
}

func (st *streamState) parseFrameSizeWithRefs(r *bits.Reader, h *FrameHeader) (err error) {
	var found bool
	for i := 0; i < RefsPerFrame; i++ {
		if err = readFlag(r, &found); err != nil {
			return
		}
		if found {
			ref := st.refs[h.RefFrameIdx[i]]
			if !ref.Valid {
				return invalidHeader("frame size taken from empty slot %d", h.RefFrameIdx[i])
			}
			h.Width, h.Height = ref.Width, ref.Height
			break
		}
	}
	if !found {
		if err = h.parseFrameSize(r); err != nil {
			return
		}
	}
	return h.parseRenderSize(r)
}

func (h *FrameHeader) parseInterpFilter(r *bits.Reader) (err error) {
	var switchable bool
	if err = readFlag(r, &switchable); err != nil {
		return
	}
	if switchable {
		h.InterpFilter = Switchable
		return
	}
	var literal uint8
	if err = readU8(r, 2, &literal); err != nil {
		return
	}
	h.InterpFilter = literalToFilter[literal]
	return
}

func (h *FrameHeader) parseTileInfo(r *bits.Reader) (err error) {
	sb64Cols := h.Sb64Cols()
	var minLog2 uint8
	for (MaxTileWidthB64 << minLog2) < sb64Cols {
		minLog2++
	}
	maxLog2 := uint8(1)
	for (sb64Cols >> maxLog2) >= MinTileWidthB64 {
		maxLog2++
	}
	maxLog2--

	h.TileColsLog2 = minLog2
	var increment bool
	for h.TileColsLog2 < maxLog2 {
		if err = readFlag(r, &increment); err != nil {
			return
		}
		if !increment {
			break
		}
		h.TileColsLog2++
	}

	if err = readFlag(r, &increment); err != nil || !increment {
		return
	}
	h.TileRowsLog2 = 1
	if err = readFlag(r, &increment); err != nil {
		return
	}
	if increment {
		h.TileRowsLog2++
	}
	return
}

// setupPastIndependence clears state that frames without past dependence must not inherit
// and applies reset_frame_context.
func (st *streamState) setupPastIndependence(h *FrameHeader) error {
	st.seg.Reset()
	st.lf.Reset()
	switch {
	case h.FrameType == KeyFrame || h.ErrorResilientMode || h.ResetFrameContext == ResetAll:
		st.contexts.ResetAll()
	case h.ResetFrameContext == ResetSingle:
		if err := st.contexts.ResetOne(int(h.FrameContextIdx)); err != nil {
			return err
		}
	}
	h.FrameContextIdx = 0
	return nil
}
