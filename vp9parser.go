// Package vp9parser parses VP9 elementary streams carried in IVF containers into
// validated per-frame headers and probability contexts for an external decoder.
package vp9parser

import "time"

// CodecParameters defines the interface for stream codec configuration.
type CodecParameters interface {
	Type() CodecType      // Returns the codec type.
	Tag() string          // Returns the codec identifier string.
	StreamIndex() uint8   // Returns the index of the stream in a container.
	SetStreamIndex(uint8) // Sets the stream index value.
	Bitrate() uint        // Returns the codec's bitrate in bits per second.
	SetBitrate(uint)      // Sets the codec's target bitrate.
}

// VideoCodecParameters extends CodecParameters with video-specific properties.
type VideoCodecParameters interface {
	CodecParameters // Inherits all CodecParameters methods.
	Width() uint    // Returns the video frame width in pixels.
	Height() uint   // Returns the video frame height in pixels.
	FPS() uint      // Returns the video frame rate (frames per second).
}

// Packet is a timestamped container payload.
type Packet interface {
	Timestamp() time.Duration // Returns the presentation timestamp.
	PTS() uint64              // Returns the raw container timestamp in timebase units.
	Data() []byte             // Returns the raw payload.
}

// Demuxer defines the interface for extracting packets from a container.
type Demuxer interface {
	Demux() (VideoCodecParameters, error) // Parses the container header and returns stream parameters.
	ReadPacket() (Packet, error)          // Reads the next packet. Returns io.EOF at the end of the stream.
	Close()                               // Releases resources used by the demuxer.
}

// InputParameter defines flags for controlling stream parsing.
type InputParameter uint8

// Input parameter constants
const (
	NoTileLayout  InputParameter = iota // Skip tile size-marker scanning.
	NoSuperframes                       // Treat every packet as a single frame.
)

// HasParameter reports whether p is present in params.
func HasParameter(params []InputParameter, p InputParameter) bool {
	for _, param := range params {
		if param == p {
			return true
		}
	}
	return false
}
