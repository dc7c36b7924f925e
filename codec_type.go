package vp9parser

// CodecType represents the type of a codec.
type CodecType uint32

// avCodecTypeMagic is a magic number used to create unique codec types.
const avCodecTypeMagic = 233333

// makeVideoCodecType creates a video CodecType based on the provided base.
func makeVideoCodecType(base uint32) (c CodecType) {
	c = CodecType(base) << codecTypeOtherBits
	return
}

// variables representing specific codec types.
var (
	H264 = makeVideoCodecType(avCodecTypeMagic + 1) //nolint:mnd // codec offsets from the magic base
	H265 = makeVideoCodecType(avCodecTypeMagic + 2) //nolint:mnd // codec offsets from the magic base
	VP8  = makeVideoCodecType(avCodecTypeMagic + 4) //nolint:mnd // codec offsets from the magic base
	VP9  = makeVideoCodecType(avCodecTypeMagic + 5) //nolint:mnd // codec offsets from the magic base
	AV1  = makeVideoCodecType(avCodecTypeMagic + 6) //nolint:mnd // codec offsets from the magic base
	MJPG = makeVideoCodecType(avCodecTypeMagic + 7) //nolint:mnd // codec offsets from the magic base

	Unknown CodecType = 0
)

// Bitwise flags for codec types.
const (
	codecTypeAudioBit  = 0x1
	codecTypeOtherBits = 1
)

// fourCCs maps IVF/AVI four-character codes to codec types.
var fourCCs = map[string]CodecType{
	"VP80": VP8,
	"VP90": VP9,
	"AV01": AV1,
	"H264": H264,
	"avc1": H264,
	"H265": H265,
	"HEVC": H265,
	"hvc1": H265,
	"MJPG": MJPG,
}

// CodecTypeFromFourCC returns the codec type for a container fourcc, or Unknown.
func CodecTypeFromFourCC(fourcc string) CodecType {
	if ct, ok := fourCCs[fourcc]; ok {
		return ct
	}
	return Unknown
}

// String returns the human-readable string representation of a CodecType.
func (ct CodecType) String() string {
	switch ct {
	case H264:
		return "H264"
	case H265:
		return "H265"
	case VP8:
		return "VP8"
	case VP9:
		return "VP9"
	case AV1:
		return "AV1"
	case MJPG:
		return "MJPEG"
	}
	return "UNKNOWN"
}

// IsVideo returns true if the CodecType represents a known video codec.
func (ct CodecType) IsVideo() bool {
	return ct != Unknown && ct&codecTypeAudioBit == 0
}
