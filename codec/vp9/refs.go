package vp9

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
)

// RefSlot is the geometry a reference slot retains from the frame last stored in it.
type RefSlot struct {
	Valid        bool
	Width        uint32
	Height       uint32
	BitDepth     uint8
	SubsamplingX bool
	SubsamplingY bool
}

func (s RefSlot) String() string {
	if !s.Valid {
		return "EMPTY"
	}
	return fmt.Sprintf("%dx%d@%dbit", s.Width, s.Height, s.BitDepth)
}

// ReferenceSlots are the eight reference frame slots of a stream.
type ReferenceSlots [NumRefFrames]RefSlot

// Refresh stores the geometry of h in every slot named by its refresh mask.
func (rs *ReferenceSlots) Refresh(h *FrameHeader) {
	for i := range rs {
		if h.RefreshFrameFlags&(1<<i) == 0 {
			continue
		}
		rs[i] = RefSlot{
			Valid:        true,
			Width:        h.Width,
			Height:       h.Height,
			BitDepth:     h.Color.BitDepth,
			SubsamplingX: h.Color.SubsamplingX,
			SubsamplingY: h.Color.SubsamplingY,
		}
	}
}

// ScaleValid reports whether a frame of width x height may predict from the slot:
// the reference is at most twice and at least a sixteenth of the frame in each dimension.
func (s RefSlot) ScaleValid(width, height uint32) bool {
	return s.Valid && 2*width >= s.Width && 2*height >= s.Height &&
		width <= 16*s.Width && height <= 16*s.Height //nolint:mnd // scaling limits
}

// validate checks that every reference used by an inter frame is populated and shares
// the frame format, and that at least one of them can be scaled to the frame size.
// It records the per-reference scale validity in h.
func (rs *ReferenceSlots) validate(h *FrameHeader) error {
	scalable := false
	for i, idx := range h.RefFrameIdx {
		ref := rs[idx]
		if !ref.Valid {
			return errors.Wrapf(vp9parser.ErrInvalidHeader, "vp9: reference %d names empty slot %d", i, idx)
		}
		if ref.BitDepth != h.Color.BitDepth ||
			ref.SubsamplingX != h.Color.SubsamplingX || ref.SubsamplingY != h.Color.SubsamplingY {
			return errors.Wrapf(vp9parser.ErrInvalidHeader,
				"vp9: reference slot %d format %s differs from frame", idx, ref)
		}
		h.RefScaleValid[i] = ref.ScaleValid(h.Width, h.Height)
		scalable = scalable || h.RefScaleValid[i]
	}
	if !scalable {
		return errors.Wrapf(vp9parser.ErrInvalidHeader,
			"vp9: no reference in slots %v can scale to %dx%d", h.RefFrameIdx, h.Width, h.Height)
	}
	return nil
}
