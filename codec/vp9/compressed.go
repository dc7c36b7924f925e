//nolint:mnd,gosec // bool coded field widths; probabilities stay within 1..255.
package vp9

// CompressedHeader is the frame-level syntax of the compressed header. The probability
// updates it carries are applied to the tables passed to ParseCompressedHeader.
type CompressedHeader struct {
	TxMode        TxMode
	ReferenceMode ReferenceMode
	CompFixedRef  int
	CompVarRef    [2]int
	// Updates counts the probabilities changed by forward updates.
	Updates int
}

// subexpPrefixTree decodes the length class of a sub-exponentially coded delta.
var subexpPrefixTree = Tree{-0, 2, -1, 4, -2, -3}

var subexpPrefixProbs = []uint8{boolProbHalf, boolProbHalf, boolProbHalf}

// invMapTable undoes the remapping that places cheap codes on the most common deltas.
var invMapTable = buildInvMapTable()

func buildInvMapTable() (t [MaxProb]uint8) {
	const step, first, coarse = 13, 7, 20
	n := 0
	for i := 0; i < coarse; i++ {
		t[n] = uint8(first + step*i)
		n++
	}
	for v := 1; v < MaxProb-1; v++ {
		if v%step == first {
			continue
		}
		t[n] = uint8(v)
		n++
	}
	t[n] = MaxProb - 2
	return
}

func invRecenterNonneg(v, m int) int {
	if v > 2*m {
		return v
	}
	if v&1 != 0 {
		return m - ((v + 1) >> 1)
	}
	return m + (v >> 1)
}

func invRemapProb(delta int, prob uint8) uint8 {
	v := int(invMapTable[delta])
	m := int(prob) - 1
	if m<<1 <= MaxProb {
		return uint8(1 + invRecenterNonneg(v, m))
	}
	return uint8(MaxProb - invRecenterNonneg(v, MaxProb-1-m))
}

type compressedReader struct {
	d       *BoolDecoder
	updates int
}

//nolint:mnd // code lengths.
func (c *compressedReader) decodeTermSubexp() (v int, err error) {
	var class int
	if class, err = c.d.ReadTree(subexpPrefixTree, subexpPrefixProbs); err != nil {
		return
	}
	switch class {
	case 0:
		return int(c.d.ReadLiteral(4)), nil
	case 1:
		return int(c.d.ReadLiteral(4)) + 16, nil
	case 2:
		return int(c.d.ReadLiteral(5)) + 32, nil
	}
	// Uniform code over the remaining 191 values: 7 bits, or 8 above 64.
	v = int(c.d.ReadLiteral(7))
	if v < 65 {
		return v + 64, nil
	}
	return (v << 1) - 1 + int(c.d.ReadBit()), nil
}

// diffUpdateProb applies one conditional forward update to *p.
func (c *compressedReader) diffUpdateProb(p *uint8) (err error) {
	if !c.d.ReadBool(boolUpdateProb) {
		return
	}
	var delta int
	if delta, err = c.decodeTermSubexp(); err != nil {
		return
	}
	if delta >= len(invMapTable) {
		return invalidHeader("probability delta %d out of range", delta)
	}
	*p = invRemapProb(delta, *p)
	c.updates++
	return
}

func (c *compressedReader) diffUpdateProbs(probs []uint8) (err error) {
	for i := range probs {
		if err = c.diffUpdateProb(&probs[i]); err != nil {
			return
		}
	}
	return
}

func (c *compressedReader) updateMvProb(p *uint8) {
	if c.d.ReadBool(boolUpdateProb) {
		*p = uint8(c.d.ReadLiteral(7)<<1 | 1)
		c.updates++
	}
}

func (c *compressedReader) updateMvProbs(probs []uint8) {
	for i := range probs {
		c.updateMvProb(&probs[i])
	}
}

// ParseCompressedHeader decodes the compressed header in data for the frame described by h,
// applying forward probability updates to probs. On error probs may be partially updated,
// so callers pass a scratch copy.
func ParseCompressedHeader(data []byte, h *FrameHeader, probs *ProbabilityTables) (ch CompressedHeader, err error) {
	var d *BoolDecoder
	if d, err = NewBoolDecoder(data); err != nil {
		return
	}
	if d.ReadBool(boolProbHalf) {
		err = invalidHeader("compressed header marker bit set")
		return
	}
	c := &compressedReader{d: d}

	ch.TxMode = c.readTxMode(h)
	if ch.TxMode == TxModeSelect {
		if err = c.readTxModeProbs(probs); err != nil {
			return
		}
	}
	if err = c.readCoefProbs(ch.TxMode, probs); err != nil {
		return
	}
	if err = c.diffUpdateProbs(probs.Skip[:]); err != nil {
		return
	}

	if !h.FrameIsIntra() {
		if err = c.readInterProbs(h, &ch, probs); err != nil {
			return
		}
	}
	ch.Updates = c.updates
	return
}

func (c *compressedReader) readTxMode(h *FrameHeader) TxMode {
	if h.Lossless() {
		return Only4x4
	}
	mode := TxMode(c.d.ReadLiteral(2))
	if mode == Allow32x32 {
		mode += TxMode(c.d.ReadBit())
	}
	return mode
}

func (c *compressedReader) readTxModeProbs(probs *ProbabilityTables) (err error) {
	for i := range probs.Tx8x8 {
		if err = c.diffUpdateProbs(probs.Tx8x8[i][:]); err != nil {
			return
		}
	}
	for i := range probs.Tx16x16 {
		if err = c.diffUpdateProbs(probs.Tx16x16[i][:]); err != nil {
			return
		}
	}
	for i := range probs.Tx32x32 {
		if err = c.diffUpdateProbs(probs.Tx32x32[i][:]); err != nil {
			return
		}
	}
	return
}

func (c *compressedReader) readCoefProbs(mode TxMode, probs *ProbabilityTables) (err error) {
	if mode >= TxModes {
		return invalidHeader("tx mode %d out of range", mode)
	}
	for txSize := Tx4x4; txSize <= txModeToBiggestTxSize[mode]; txSize++ {
		if c.d.ReadBit() == 0 {
			continue
		}
		for i := 0; i < PlaneTypes; i++ {
			for j := 0; j < RefTypes; j++ {
				for band := 0; band < CoefBands; band++ {
					contexts := PrevCoefContexts
					if band == 0 {
						contexts = 3
					}
					for ctx := 0; ctx < contexts; ctx++ {
						if err = c.diffUpdateProbs(probs.Coef[txSize][i][j][band][ctx][:]); err != nil {
							return
						}
					}
				}
			}
		}
	}
	return
}

func (c *compressedReader) readInterProbs(h *FrameHeader, ch *CompressedHeader, probs *ProbabilityTables) (err error) {
	for i := range probs.InterMode {
		if err = c.diffUpdateProbs(probs.InterMode[i][:]); err != nil {
			return
		}
	}
	if h.InterpFilter == Switchable {
		for i := range probs.InterpFilter {
			if err = c.diffUpdateProbs(probs.InterpFilter[i][:]); err != nil {
				return
			}
		}
	}
	if err = c.diffUpdateProbs(probs.IsInter[:]); err != nil {
		return
	}

	c.readReferenceMode(h, ch)
	if ch.ReferenceMode == ReferenceModeSelect {
		if err = c.diffUpdateProbs(probs.CompMode[:]); err != nil {
			return
		}
	}
	if ch.ReferenceMode != CompoundReference {
		for i := range probs.SingleRef {
			if err = c.diffUpdateProbs(probs.SingleRef[i][:]); err != nil {
				return
			}
		}
	}
	if ch.ReferenceMode != SingleReference {
		if err = c.diffUpdateProbs(probs.CompRef[:]); err != nil {
			return
		}
	}

	for i := range probs.YMode {
		if err = c.diffUpdateProbs(probs.YMode[i][:]); err != nil {
			return
		}
	}
	for i := range probs.Partition {
		if err = c.diffUpdateProbs(probs.Partition[i][:]); err != nil {
			return
		}
	}
	c.readMvProbs(h, &probs.Mv)
	return
}

func (c *compressedReader) readReferenceMode(h *FrameHeader, ch *CompressedHeader) {
	bias := h.RefFrameSignBias
	switch {
	case bias[LastFrame] == bias[GoldenFrame]:
		ch.CompFixedRef, ch.CompVarRef = AltrefFrame, [2]int{LastFrame, GoldenFrame}
	case bias[LastFrame] == bias[AltrefFrame]:
		ch.CompFixedRef, ch.CompVarRef = GoldenFrame, [2]int{LastFrame, AltrefFrame}
	default:
		ch.CompFixedRef, ch.CompVarRef = LastFrame, [2]int{GoldenFrame, AltrefFrame}
	}

	compoundAllowed := false
	for i := 1; i < RefsPerFrame; i++ {
		if bias[i+1] != bias[LastFrame] {
			compoundAllowed = true
		}
	}
	ch.ReferenceMode = SingleReference
	if !compoundAllowed || c.d.ReadBit() == 0 {
		return
	}
	ch.ReferenceMode = CompoundReference
	if c.d.ReadBit() == 1 {
		ch.ReferenceMode = ReferenceModeSelect
	}
}

func (c *compressedReader) readMvProbs(h *FrameHeader, mv *MvProbs) {
	c.updateMvProbs(mv.Joints[:])
	for i := range mv.Comps {
		comp := &mv.Comps[i]
		c.updateMvProb(&comp.Sign)
		c.updateMvProbs(comp.Classes[:])
		c.updateMvProbs(comp.Class0[:])
		c.updateMvProbs(comp.Bits[:])
	}
	for i := range mv.Comps {
		comp := &mv.Comps[i]
		for j := range comp.Class0Fr {
			c.updateMvProbs(comp.Class0Fr[j][:])
		}
		c.updateMvProbs(comp.Fr[:])
	}
	if !h.AllowHighPrecisionMv {
		return
	}
	for i := range mv.Comps {
		c.updateMvProb(&mv.Comps[i].Class0Hp)
		c.updateMvProb(&mv.Comps[i].Hp)
	}
}
