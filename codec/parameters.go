package codec

import (
	"fmt"
	"math"

	"github.com/ugparu/vp9parser"
)

type BaseParameters struct {
	Index uint8
	BRate uint
	vp9parser.CodecType
}

func (par *BaseParameters) SetStreamIndex(idx uint8) {
	par.Index = idx
}

func (par *BaseParameters) StreamIndex() uint8 {
	if par == nil {
		return math.MaxUint8
	}
	return par.Index
}

func (par *BaseParameters) Type() vp9parser.CodecType {
	if par == nil {
		return math.MaxUint32
	}
	return par.CodecType
}

func (par *BaseParameters) SetBitrate(br uint) {
	par.BRate = br
}

func (par *BaseParameters) Bitrate() uint {
	if par == nil {
		return 0
	}
	return par.BRate
}

func (par *BaseParameters) String() string {
	if par == nil {
		return "EMPTY_CODEC_PARAMETERS"
	}
	return fmt.Sprintf("CODEC_PARAMETERS codec=%v", par.CodecType)
}

// VideoParameters carries the geometry every video codec reports.
type VideoParameters struct {
	BaseParameters
	FrameWidth  uint
	FrameHeight uint
	FrameRate   uint
}

func (par *VideoParameters) Width() uint {
	return par.FrameWidth
}

func (par *VideoParameters) Height() uint {
	return par.FrameHeight
}

func (par *VideoParameters) FPS() uint {
	return par.FrameRate
}

// FrameRate converts a container timebase (rate/scale) into whole frames per second.
func FrameRate(rate, scale uint32) uint {
	if scale == 0 {
		return 0
	}
	return uint(math.Round(float64(rate) / float64(scale)))
}
