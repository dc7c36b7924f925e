// Package vp8 reads VP8 frame headers so VP8 IVF files can be described and refused.
//
//nolint:mnd,gosec // frame tag layout; sizes are 14-bit.
package vp8

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
	"github.com/ugparu/vp9parser/codec"
	"golang.org/x/image/vp8"
)

const frameTagSize = 3

// FrameHeader is the VP8 frame tag plus, for key frames, the picture size.
type FrameHeader struct {
	KeyFrame          bool
	Version           uint8
	ShowFrame         bool
	FirstPartitionLen uint32
	Width             int
	Height            int
	XScale            uint8
	YScale            uint8
}

// ParseFrameHeader reads the frame header at the start of a VP8 payload.
// Inter frames carry no size; only their frame tag is returned.
func ParseFrameHeader(payload []byte) (fh FrameHeader, err error) {
	if len(payload) < frameTagSize {
		err = errors.Wrapf(vp9parser.ErrInvalidHeader, "vp8: %d-byte payload", len(payload))
		return
	}
	if payload[0]&1 != 0 {
		fh.Version = (payload[0] >> 1) & 7
		fh.ShowFrame = (payload[0]>>4)&1 == 1
		fh.FirstPartitionLen = uint32(payload[0])>>5 | uint32(payload[1])<<3 | uint32(payload[2])<<11
		return
	}

	d := vp8.NewDecoder()
	d.Init(bytes.NewReader(payload), len(payload))
	h, err := d.DecodeFrameHeader()
	if err != nil {
		err = errors.Wrapf(vp9parser.ErrInvalidHeader, "vp8: %v", err)
		return
	}
	return FrameHeader{
		KeyFrame:          h.KeyFrame,
		Version:           h.VersionNumber,
		ShowFrame:         h.ShowFrame,
		FirstPartitionLen: h.FirstPartitionLen,
		Width:             h.Width,
		Height:            h.Height,
		XScale:            h.XScale,
		YScale:            h.YScale,
	}, nil
}

type CodecParameters struct {
	codec.VideoParameters
	Version uint8
}

// NewCodecParameters describes a VP8 stream from one of its key frame headers.
func NewCodecParameters(fh FrameHeader, fps uint) *CodecParameters {
	return &CodecParameters{
		VideoParameters: codec.VideoParameters{
			BaseParameters: codec.BaseParameters{CodecType: vp9parser.VP8},
			FrameWidth:     uint(fh.Width),
			FrameHeight:    uint(fh.Height),
			FrameRate:      fps,
		},
		Version: fh.Version,
	}
}

func (par *CodecParameters) Tag() string {
	return "vp8"
}

func (par *CodecParameters) String() string {
	return fmt.Sprintf("VP8_CODEC_PARAMETERS size=%dx%d version=%d fps=%d",
		par.Width(), par.Height(), par.Version, par.FPS())
}

var _ vp9parser.VideoCodecParameters = (*CodecParameters)(nil)
