package vp9

import (
	"fmt"

	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/codec"
)

// bits per pixel per second used to estimate a nominal bitrate.
const bitrateFactor = 0.1

type CodecParameters struct {
	codec.VideoParameters
	Prof   Profile
	Depth  uint8
	Lvl    Level
	Chroma Subsampling
}

// NewCodecParameters describes a stream from one of its intra frame headers.
func NewCodecParameters(h *FrameHeader, fps uint) *CodecParameters {
	par := &CodecParameters{
		VideoParameters: codec.VideoParameters{
			BaseParameters: codec.BaseParameters{CodecType: vp9parser.VP9},
			FrameWidth:     uint(h.Width),
			FrameHeight:    uint(h.Height),
			FrameRate:      fps,
		},
		Prof:   h.Profile,
		Depth:  h.Color.BitDepth,
		Lvl:    LevelForSize(h.Width, h.Height),
		Chroma: h.Color.Subsampling(),
	}
	par.BRate = uint(float64(h.Width) * float64(h.Height) * float64(max(fps, 1)) * bitrateFactor)
	return par
}

// ApplyMetadata overrides the level with the one declared in CodecPrivate.
func (par *CodecParameters) ApplyMetadata(md Metadata) {
	if md.Level != 0 {
		par.Lvl = md.Level
	}
}

func (par *CodecParameters) Profile() Profile {
	return par.Prof
}

func (par *CodecParameters) BitDepth() uint8 {
	return par.Depth
}

// Tag returns the codec string in vp09.PP.LL.DD form.
func (par *CodecParameters) Tag() string {
	return fmt.Sprintf("vp09.%02d.%02d.%02d", uint8(par.Prof), uint8(par.Lvl), par.Depth)
}

func (par *CodecParameters) String() string {
	return fmt.Sprintf("VP9_CODEC_PARAMETERS tag=%s size=%dx%d chroma=%s fps=%d",
		par.Tag(), par.Width(), par.Height(), par.Chroma, par.FPS())
}

var _ vp9parser.VideoCodecParameters = (*CodecParameters)(nil)
