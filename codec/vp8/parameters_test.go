package vp8

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/vp9parser"
)

// keyFrame builds a key frame tag and start code for the given size.
func keyFrame(width, height int, hscale, vscale uint8) []byte {
	const partitionLen = 10
	tag := uint32(partitionLen)<<5 | 1<<4 // key frame, version 0, shown
	return []byte{
		byte(tag), byte(tag >> 8), byte(tag >> 16),
		0x9d, 0x01, 0x2a,
		byte(width), byte(width>>8&0x3f) | hscale<<6,
		byte(height), byte(height>>8&0x3f) | vscale<<6,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

func TestParseFrameHeader(t *testing.T) {
	t.Parallel()

	t.Run("key_frame", func(t *testing.T) {
		t.Parallel()
		fh, err := ParseFrameHeader(keyFrame(176, 144, 0, 0))
		require.NoError(t, err)
		require.True(t, fh.KeyFrame)
		require.True(t, fh.ShowFrame)
		require.Equal(t, 176, fh.Width)
		require.Equal(t, 144, fh.Height)
		require.Equal(t, uint32(10), fh.FirstPartitionLen)
	})

	t.Run("scaling", func(t *testing.T) {
		t.Parallel()
		fh, err := ParseFrameHeader(keyFrame(640, 480, 1, 2))
		require.NoError(t, err)
		require.Equal(t, 640, fh.Width)
		require.Equal(t, 480, fh.Height)
		require.Equal(t, uint8(1), fh.XScale)
		require.Equal(t, uint8(2), fh.YScale)
	})

	t.Run("inter_frame", func(t *testing.T) {
		t.Parallel()
		fh, err := ParseFrameHeader([]byte{0x31, 0x01, 0x00, 0xff})
		require.NoError(t, err)
		require.False(t, fh.KeyFrame)
		require.True(t, fh.ShowFrame)
		require.Zero(t, fh.Width)
	})

	tests := map[string][]byte{
		"empty":          nil,
		"short_tag":      {0x10, 0x00},
		"bad_start_code": {0x50, 0x01, 0x00, 0x9d, 0x01, 0x2b, 0xb0, 0x00, 0x90, 0x00},
		"cut_start_code": {0x50, 0x01, 0x00, 0x9d, 0x01},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFrameHeader(data)
			require.ErrorIs(t, err, vp9parser.ErrInvalidHeader)
		})
	}
}

func TestCodecParameters(t *testing.T) {
	t.Parallel()

	fh, err := ParseFrameHeader(keyFrame(320, 240, 0, 0))
	require.NoError(t, err)
	par := NewCodecParameters(fh, 25)
	require.Equal(t, vp9parser.VP8, par.Type())
	require.Equal(t, uint(320), par.Width())
	require.Equal(t, uint(240), par.Height())
	require.Equal(t, uint(25), par.FPS())
	require.Equal(t, "vp8", par.Tag())
	require.Contains(t, par.String(), "320x240")
}
