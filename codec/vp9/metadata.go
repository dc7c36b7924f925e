//nolint:mnd // level and feature record layout.
package vp9

import "fmt"

// Codec feature identifiers of the WebM CodecPrivate element.
const (
	featureProfile           = 1
	featureLevel             = 2
	featureBitDepth          = 3
	featureChromaSubsampling = 4
)

// Level is the VP9 level times ten (31 is level 3.1). Zero means unknown.
type Level uint8

func (l Level) String() string {
	if l == 0 {
		return "UNKNOWN"
	}
	return fmt.Sprintf("%d.%d", l/10, l%10)
}

// levelLimits maps each level to its maximum luma picture size.
var levelLimits = []struct {
	level   Level
	maxSize uint32
}{
	{10, 36864},
	{11, 73728},
	{20, 122880},
	{21, 245760},
	{30, 552960},
	{31, 983040},
	{40, 2228224},
	{50, 8912896},
	{60, 35651584},
}

// LevelForSize returns the lowest level whose picture size limit admits width x height.
func LevelForSize(width, height uint32) Level {
	size := width * height
	for _, l := range levelLimits {
		if size <= l.maxSize {
			return l.level
		}
	}
	return 0
}

// MetadataSubsampling is the chroma subsampling signalled in CodecPrivate.
type MetadataSubsampling uint8

const (
	Metadata420Vertical MetadataSubsampling = iota
	Metadata420Colocated
	Metadata422
	Metadata444
	MetadataSubsamplingUnknown = MetadataSubsampling(0xFF)
)

func (s MetadataSubsampling) String() string {
	switch s {
	case Metadata420Vertical:
		return "4:2:0 VERTICAL"
	case Metadata420Colocated:
		return "4:2:0 COLOCATED"
	case Metadata422:
		return "4:2:2"
	case Metadata444:
		return "4:4:4"
	}
	return "UNKNOWN"
}

// Metadata is the VP9 codec feature metadata stored in a container's CodecPrivate.
// Features absent from the record keep their zero value, or unknown for subsampling.
type Metadata struct {
	Profile           Profile
	Level             Level
	BitDepth          uint8
	ChromaSubsampling MetadataSubsampling
}

// ParseCodecPrivate parses a list of (id, length, value) features.
func ParseCodecPrivate(data []byte) (md Metadata, err error) {
	md.ChromaSubsampling = MetadataSubsamplingUnknown
	if len(data) == 0 {
		err = invalidHeader("empty codec private")
		return
	}
	for pos := 0; pos < len(data); {
		if len(data)-pos < 2 {
			return md, invalidHeader("codec private feature at %d truncated", pos)
		}
		id, length := data[pos], int(data[pos+1])
		pos += 2
		if length == 0 || length > len(data)-pos {
			return md, invalidHeader("codec private feature %d length %d at %d", id, length, pos)
		}
		value := data[pos+length-1]
		pos += length
		switch id {
		case featureProfile:
			md.Profile = Profile(value)
		case featureLevel:
			md.Level = Level(value)
		case featureBitDepth:
			md.BitDepth = value
		case featureChromaSubsampling:
			md.ChromaSubsampling = MetadataSubsampling(value)
		}
	}
	return
}
