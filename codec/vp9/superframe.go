//nolint:mnd // superframe marker layout.
package vp9

import "github.com/ugparu/vp9parser/utils/bits/pio"

const (
	superframeMarkerMask = 0xe0
	superframeMarker     = 0xc0
)

// SplitSuperframe returns the frames packed into data. A packet without a valid
// superframe index is returned as a single frame.
func SplitSuperframe(data []byte) (frames [][]byte, err error) {
	if len(data) == 0 {
		return nil, invalidHeader("empty packet")
	}
	last := data[len(data)-1]
	if last&superframeMarkerMask != superframeMarker {
		return [][]byte{data}, nil
	}

	count := int(last&0x7) + 1
	sizeBytes := int((last>>3)&0x3) + 1
	indexSize := 2 + count*sizeBytes
	if len(data) < indexSize || data[len(data)-indexSize] != last {
		return [][]byte{data}, nil
	}

	index := data[len(data)-indexSize+1 : len(data)-1]
	payload := data[:len(data)-indexSize]
	frames = make([][]byte, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		size := int(pio.ULE(index[i*sizeBytes:], sizeBytes))
		if size > len(payload)-offset {
			return nil, invalidHeader("superframe frame %d size %d overruns %d-byte payload", i, size, len(payload))
		}
		frames = append(frames, payload[offset:offset+size])
		offset += size
	}
	return
}
