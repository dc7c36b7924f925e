//nolint:mnd,gosec // bitstream field widths; literals are bounded by their bit counts.
package vp9

import (
	"github.com/ugparu/vp9parser/utils/bits"
)

const (
	segTreeProbs = MaxSegments - 1
	segPredProbs = 3
)

// SegmentationState is the segmentation syntax persisted across frames. Feature data
// survives frames that do not set UpdateData.
type SegmentationState struct {
	Enabled          bool
	UpdateMap        bool
	TemporalUpdate   bool
	UpdateData       bool
	AbsOrDeltaUpdate bool
	TreeProbs        [segTreeProbs]uint8
	PredProbs        [segPredProbs]uint8
	FeatureEnabled   [MaxSegments][SegLvlMax]bool
	FeatureData      [MaxSegments][SegLvlMax]int16
}

// Reset clears all features, as a frame without past dependence requires.
func (s *SegmentationState) Reset() {
	s.FeatureEnabled = [MaxSegments][SegLvlMax]bool{}
	s.FeatureData = [MaxSegments][SegLvlMax]int16{}
	s.AbsOrDeltaUpdate = false
}

// FeatureActive reports whether segmentation is on and feature is enabled for segment.
func (s *SegmentationState) FeatureActive(segment, feature int) bool {
	return s.Enabled && s.FeatureEnabled[segment][feature]
}

func readProb(r *bits.Reader) (prob uint8, err error) {
	var coded bool
	if coded, err = r.ReadBool(); err != nil {
		return
	}
	if !coded {
		return MaxProb, nil
	}
	var v uint
	if v, err = r.ReadBits(8); err != nil {
		return
	}
	return uint8(v), nil
}

func (s *SegmentationState) parse(r *bits.Reader) (err error) {
	s.UpdateMap = false
	s.UpdateData = false
	if s.Enabled, err = r.ReadBool(); err != nil || !s.Enabled {
		return
	}

	if s.UpdateMap, err = r.ReadBool(); err != nil {
		return
	}
	if s.UpdateMap {
		for i := range s.TreeProbs {
			if s.TreeProbs[i], err = readProb(r); err != nil {
				return
			}
		}
		if s.TemporalUpdate, err = r.ReadBool(); err != nil {
			return
		}
		for i := range s.PredProbs {
			s.PredProbs[i] = MaxProb
			if s.TemporalUpdate {
				if s.PredProbs[i], err = readProb(r); err != nil {
					return
				}
			}
		}
	}

	if s.UpdateData, err = r.ReadBool(); err != nil || !s.UpdateData {
		return
	}
	if s.AbsOrDeltaUpdate, err = r.ReadBool(); err != nil {
		return
	}
	for i := 0; i < MaxSegments; i++ {
		for j := 0; j < SegLvlMax; j++ {
			s.FeatureData[i][j] = 0
			if s.FeatureEnabled[i][j], err = r.ReadBool(); err != nil {
				return
			}
			if !s.FeatureEnabled[i][j] {
				continue
			}
			var v int
			if segmentationFeatureSigned[j] {
				v, err = r.ReadSigned(segmentationFeatureBits[j])
			} else {
				var u uint
				u, err = r.ReadBits(segmentationFeatureBits[j])
				v = int(u)
			}
			if err != nil {
				return
			}
			s.FeatureData[i][j] = int16(v)
		}
	}
	return
}

// QIndex returns the quantizer index used by segment.
func (s *SegmentationState) QIndex(segment int, baseQIdx uint8) uint8 {
	if !s.FeatureActive(segment, SegLvlAltQ) {
		return baseQIdx
	}
	q := int(s.FeatureData[segment][SegLvlAltQ])
	if !s.AbsOrDeltaUpdate {
		q += int(baseQIdx)
	}
	return uint8(min(max(q, 0), MaxProb))
}

// LoopFilterState carries the loop filter syntax. The deltas persist across frames.
type LoopFilterState struct {
	Level        uint8
	Sharpness    uint8
	DeltaEnabled bool
	DeltaUpdate  bool
	RefDeltas    [MaxRefFrames]int8
	ModeDeltas   [2]int8
}

// Reset restores the default deltas.
func (lf *LoopFilterState) Reset() {
	lf.DeltaEnabled = true
	lf.RefDeltas = [MaxRefFrames]int8{1, 0, -1, -1}
	lf.ModeDeltas = [2]int8{0, 0}
}

func (lf *LoopFilterState) parse(r *bits.Reader) (err error) {
	var v uint
	if v, err = r.ReadBits(6); err != nil {
		return
	}
	lf.Level = uint8(v)
	if v, err = r.ReadBits(3); err != nil {
		return
	}
	lf.Sharpness = uint8(v)

	lf.DeltaUpdate = false
	if lf.DeltaEnabled, err = r.ReadBool(); err != nil || !lf.DeltaEnabled {
		return
	}
	if lf.DeltaUpdate, err = r.ReadBool(); err != nil || !lf.DeltaUpdate {
		return
	}
	for i := range lf.RefDeltas {
		if err = readDelta(r, &lf.RefDeltas[i]); err != nil {
			return
		}
	}
	for i := range lf.ModeDeltas {
		if err = readDelta(r, &lf.ModeDeltas[i]); err != nil {
			return
		}
	}
	return
}

func readDelta(r *bits.Reader, dst *int8) (err error) {
	var update bool
	if update, err = r.ReadBool(); err != nil || !update {
		return
	}
	var v int
	if v, err = r.ReadSigned(6); err != nil {
		return
	}
	*dst = int8(v)
	return
}

// QuantizationParams is the frame quantizer syntax.
type QuantizationParams struct {
	BaseQIdx   uint8
	DeltaQYDc  int8
	DeltaQUVDc int8
	DeltaQUVAc int8
}

// Lossless reports whether the frame is coded losslessly.
func (q *QuantizationParams) Lossless() bool {
	return q.BaseQIdx == 0 && q.DeltaQYDc == 0 && q.DeltaQUVDc == 0 && q.DeltaQUVAc == 0
}

func (q *QuantizationParams) parse(r *bits.Reader) (err error) {
	var v uint
	if v, err = r.ReadBits(8); err != nil {
		return
	}
	q.BaseQIdx = uint8(v)
	for _, dst := range []*int8{&q.DeltaQYDc, &q.DeltaQUVDc, &q.DeltaQUVAc} {
		*dst = 0
		if err = readQuantDelta(r, dst); err != nil {
			return
		}
	}
	return
}

func readQuantDelta(r *bits.Reader, dst *int8) (err error) {
	var coded bool
	if coded, err = r.ReadBool(); err != nil || !coded {
		return
	}
	var v int
	if v, err = r.ReadSigned(4); err != nil {
		return
	}
	*dst = int8(v)
	return
}
