//nolint:mnd // bitstream constants.
package vp9

import "fmt"

const (
	NumRefFrames     = 8 // reference slots
	RefsPerFrame     = 3 // LAST, GOLDEN, ALTREF
	NumFrameContexts = 4
	MaxSegments      = 8
	SegLvlMax        = 4
	MaxLoopFilter    = 63
	MaxProb          = 255

	MinTileWidthB64 = 4
	MaxTileWidthB64 = 64

	syncCode0 = 0x49
	syncCode1 = 0x83
	syncCode2 = 0x42

	frameMarker = 2
)

// Reference frame names used for sign bias and loop filter deltas.
const (
	IntraFrame = iota
	LastFrame
	GoldenFrame
	AltrefFrame
	MaxRefFrames
)

// Segmentation feature indices.
const (
	SegLvlAltQ = iota
	SegLvlAltL
	SegLvlRefFrame
	SegLvlSkip
)

var (
	segmentationFeatureBits   = [SegLvlMax]int{8, 6, 2, 0}
	segmentationFeatureSigned = [SegLvlMax]bool{true, true, false, false}
)

// Profile is the VP9 profile.
type Profile uint8

const (
	Profile0 Profile = iota // 8 bit, 4:2:0
	Profile1                // 8 bit, 4:2:2, 4:4:0, 4:4:4
	Profile2                // 10-12 bit, 4:2:0
	Profile3                // 10-12 bit, 4:2:2, 4:4:0, 4:4:4
)

func (p Profile) String() string {
	return fmt.Sprintf("PROFILE_%d", uint8(p))
}

// FrameType distinguishes key frames from everything else.
type FrameType uint8

const (
	KeyFrame FrameType = iota
	NonKeyFrame
)

func (ft FrameType) String() string {
	if ft == KeyFrame {
		return "KEY"
	}
	return "NON_KEY"
}

// ColorSpace as signalled in color_config.
type ColorSpace uint8

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceBT601
	ColorSpaceBT709
	ColorSpaceSMPTE170
	ColorSpaceSMPTE240
	ColorSpaceBT2020
	ColorSpaceReserved
	ColorSpaceRGB
)

func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceUnknown:
		return "UNKNOWN"
	case ColorSpaceBT601:
		return "BT601"
	case ColorSpaceBT709:
		return "BT709"
	case ColorSpaceSMPTE170:
		return "SMPTE170"
	case ColorSpaceSMPTE240:
		return "SMPTE240"
	case ColorSpaceBT2020:
		return "BT2020"
	case ColorSpaceReserved:
		return "RESERVED"
	case ColorSpaceRGB:
		return "SRGB"
	}
	return "INVALID"
}

// ColorRange selects studio or full swing.
type ColorRange uint8

const (
	StudioSwing ColorRange = iota
	FullSwing
)

// Subsampling is the chroma layout derived from subsampling_x/subsampling_y.
type Subsampling uint8

const (
	Yuv444 Subsampling = iota
	Yuv440
	Yuv422
	Yuv420
)

func (s Subsampling) String() string {
	switch s {
	case Yuv444:
		return "4:4:4"
	case Yuv440:
		return "4:4:0"
	case Yuv422:
		return "4:2:2"
	}
	return "4:2:0"
}

// InterpolationFilter selects the inter prediction filter.
type InterpolationFilter uint8

const (
	EightTapSmooth InterpolationFilter = iota
	EightTap
	EightTapSharp
	Bilinear
	Switchable
)

// literalToFilter maps the 2-bit interp_filter literal to a filter type.
var literalToFilter = [4]InterpolationFilter{EightTapSmooth, EightTap, EightTapSharp, Bilinear}

func (f InterpolationFilter) String() string {
	switch f {
	case EightTapSmooth:
		return "EIGHTTAP_SMOOTH"
	case EightTap:
		return "EIGHTTAP"
	case EightTapSharp:
		return "EIGHTTAP_SHARP"
	case Bilinear:
		return "BILINEAR"
	case Switchable:
		return "SWITCHABLE"
	}
	return "UNKNOWN"
}

// ResetFrameContext is the reset_frame_context directive.
type ResetFrameContext uint8

const (
	ResetNone0  ResetFrameContext = iota // no reset
	ResetNone1                           // no reset
	ResetSingle                          // reset the slot named by frame_context_idx
	ResetAll                             // reset all four slots
)

// TxMode is the transform mode signalled in the compressed header.
type TxMode uint8

const (
	Only4x4 TxMode = iota
	Allow8x8
	Allow16x16
	Allow32x32
	TxModeSelect
	TxModes
)

func (m TxMode) String() string {
	switch m {
	case Only4x4:
		return "ONLY_4X4"
	case Allow8x8:
		return "ALLOW_8X8"
	case Allow16x16:
		return "ALLOW_16X16"
	case Allow32x32:
		return "ALLOW_32X32"
	case TxModeSelect:
		return "TX_MODE_SELECT"
	}
	return "INVALID"
}

// Transform sizes.
const (
	Tx4x4 = iota
	Tx8x8
	Tx16x16
	Tx32x32
	TxSizes
)

// txModeToBiggestTxSize bounds the coefficient tables updated per tx_mode.
var txModeToBiggestTxSize = [TxModes]int{Tx4x4, Tx8x8, Tx16x16, Tx32x32, Tx32x32}

// ReferenceMode is the frame-level single/compound prediction mode.
type ReferenceMode uint8

const (
	SingleReference ReferenceMode = iota
	CompoundReference
	ReferenceModeSelect
)

func (m ReferenceMode) String() string {
	switch m {
	case SingleReference:
		return "SINGLE"
	case CompoundReference:
		return "COMPOUND"
	case ReferenceModeSelect:
		return "SELECT"
	}
	return "INVALID"
}
