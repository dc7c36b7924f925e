package vp9

// bitWriter appends bits most significant first.
type bitWriter struct {
	buf []byte
	n   int
}

func (w *bitWriter) put(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if (v>>uint(i))&1 == 1 {
			w.buf[len(w.buf)-1] |= 0x80 >> uint(w.n%8)
		}
		w.n++
	}
}

func (w *bitWriter) flag(b bool) {
	if b {
		w.put(1, 1)
	} else {
		w.put(0, 1)
	}
}

func (w *bitWriter) signed(v, n int) {
	if v < 0 {
		w.put(uint64(-v), n)
		w.put(1, 1)
		return
	}
	w.put(uint64(v), n)
	w.put(0, 1)
}

func (w *bitWriter) bytes() []byte {
	return w.buf
}

// boolEncoder is the arithmetic encoder matching BoolDecoder.
type boolEncoder struct {
	out      []byte
	rng      uint32
	bottom   uint32
	bitCount int
}

func newBoolEncoder() *boolEncoder {
	return &boolEncoder{rng: 255, bitCount: 24}
}

func (e *boolEncoder) addOne() {
	i := len(e.out) - 1
	for i >= 0 && e.out[i] == 0xFF {
		e.out[i] = 0
		i--
	}
	e.out[i]++
}

func (e *boolEncoder) writeBool(bit bool, prob uint8) {
	split := 1 + (((e.rng - 1) * uint32(prob)) >> 8)
	if bit {
		e.bottom += split
		e.rng -= split
	} else {
		e.rng = split
	}
	for e.rng < 128 {
		e.rng <<= 1
		if e.bottom&(1<<31) != 0 {
			e.addOne()
		}
		e.bottom <<= 1
		e.bitCount--
		if e.bitCount == 0 {
			e.out = append(e.out, byte(e.bottom>>24))
			e.bottom &= 0xFFFFFF
			e.bitCount = 8
		}
	}
}

func (e *boolEncoder) literal(v uint, n int) {
	for i := n - 1; i >= 0; i-- {
		e.writeBool((v>>uint(i))&1 == 1, boolProbHalf)
	}
}

// skipUpdates writes n "no update" flags.
func (e *boolEncoder) skipUpdates(n int) {
	for i := 0; i < n; i++ {
		e.writeBool(false, boolUpdateProb)
	}
}

func (e *boolEncoder) subexp(v int) {
	switch {
	case v < 16:
		e.literal(0, 1)
		e.literal(uint(v), 4)
	case v < 32:
		e.literal(0b10, 2)
		e.literal(uint(v-16), 4)
	case v < 64:
		e.literal(0b110, 3)
		e.literal(uint(v-32), 5)
	default:
		e.literal(0b111, 3)
		if v-64 < 65 {
			e.literal(uint(v-64), 7)
		} else {
			e.literal(uint(v+1)>>1, 7)
			e.literal(uint(v+1)&1, 1)
		}
	}
}

// update writes a forward update carrying delta.
func (e *boolEncoder) update(delta int) {
	e.writeBool(true, boolUpdateProb)
	e.subexp(delta)
}

func (e *boolEncoder) tree(tree Tree, probs []uint8, symbol int) {
	bits, nodes, ok := treePath(tree, 0, symbol)
	if !ok {
		panic("symbol not in tree")
	}
	for i, b := range bits {
		e.writeBool(b, probs[nodes[i]>>1])
	}
}

func treePath(tree Tree, node, symbol int) (bits []bool, nodes []int, ok bool) {
	for bit := 0; bit < 2; bit++ {
		child := tree[node+bit]
		if child <= 0 {
			if int(-child) == symbol {
				return []bool{bit == 1}, []int{node}, true
			}
			continue
		}
		if sub, subNodes, found := treePath(tree, int(child), symbol); found {
			return append([]bool{bit == 1}, sub...), append([]int{node}, subNodes...), true
		}
	}
	return nil, nil, false
}

func (e *boolEncoder) flush() []byte {
	c := e.bitCount
	v := e.bottom
	if v&(1<<uint(32-c)) != 0 {
		e.addOne()
	}
	v <<= uint(c & 7)
	c >>= 3
	for c--; c >= 0; c-- {
		v <<= 8
	}
	for i := 0; i < 4; i++ {
		e.out = append(e.out, byte(v>>24))
		v <<= 8
	}
	return e.out
}

type frameKindSpec int

const (
	specKey frameKindSpec = iota
	specIntraOnly
	specInter
	specShowExisting
)

// frameSpec describes a synthetic frame. Zero values produce the simplest legal syntax.
type frameSpec struct {
	kind         frameKindSpec
	profile      uint
	existingSlot uint
	showFrame    bool
	errorRes     bool
	reset        uint

	twelveBit    bool
	colorSpace   uint
	subX, subY   bool
	reservedBit  bool
	badSync      bool
	width        uint32
	height       uint32
	renderWidth  uint32
	renderHeight uint32

	refresh    uint8
	refIdx     [RefsPerFrame]uint
	signBias   [RefsPerFrame]bool
	foundRef   int
	allowHP    bool
	switchable bool
	filter     uint

	refreshCtx bool
	parallel   bool
	ctxIdx     uint

	lfLevel     uint
	lfDeltas    bool
	baseQ       uint
	segmentHook func(w *bitWriter)

	tileColsLog2 uint8
	tileRowsLog2 uint8
	headerSize   int // overrides the compressed size when > 0, -1 writes zero
	marker       uint64
	compressed   func(e *boolEncoder)
	tileData     []byte
}

func keyFrameSpec(width, height uint32) frameSpec {
	return frameSpec{
		kind:       specKey,
		showFrame:  true,
		colorSpace: uint(ColorSpaceBT601),
		width:      width,
		height:     height,
		foundRef:   -1,
		baseQ:      60,
		marker:     frameMarker,
	}
}

func interFrameSpec() frameSpec {
	return frameSpec{
		kind:      specInter,
		showFrame: true,
		refresh:   0x01,
		refIdx:    [RefsPerFrame]uint{0, 1, 2},
		foundRef:  0,
		baseQ:     60,
		marker:    frameMarker,
	}
}

func intraOnlyFrameSpec(width, height uint32) frameSpec {
	return frameSpec{
		kind:     specIntraOnly,
		width:    width,
		height:   height,
		refresh:  0x02,
		foundRef: -1,
		baseQ:    60,
		marker:   frameMarker,
	}
}

func showExistingSpec(slot uint) frameSpec {
	return frameSpec{kind: specShowExisting, existingSlot: slot, marker: frameMarker}
}

func (s frameSpec) lossless() bool {
	return s.baseQ == 0
}

// writeIntraCompressed writes a compressed header with ALLOW_32X32 and no updates.
func (s frameSpec) writeIntraCompressed(e *boolEncoder) {
	if !s.lossless() {
		e.literal(uint(Allow32x32), 2)
		e.literal(0, 1)
		e.literal(0, 4) // no coefficient updates for 4x4..32x32
	} else {
		e.literal(0, 1)
	}
	e.skipUpdates(SkipContexts)
}

func (s frameSpec) compoundAllowed() bool {
	return s.signBias[1] != s.signBias[0] || s.signBias[2] != s.signBias[0]
}

func mvUpdateCount(allowHP bool) int {
	n := MvJoints - 1 + 2*(1+MvClasses-1+Class0Size-1+MvOffsetBits) + 2*(Class0Size*(MvFrSize-1)+MvFrSize-1)
	if allowHP {
		n += 4
	}
	return n
}

func (s frameSpec) writeInterCompressed(e *boolEncoder) {
	s.writeIntraCompressed(e)
	e.skipUpdates(InterModeContexts * (InterModes - 1))
	if s.switchable {
		e.skipUpdates(InterpFilterContexts * 2)
	}
	e.skipUpdates(IsInterContexts)
	if s.compoundAllowed() {
		e.literal(0, 1)
	}
	e.skipUpdates(RefContexts * 2)
	e.skipUpdates(BlockSizeGroups * (IntraModes - 1))
	e.skipUpdates(PartitionContexts * (PartitionTypes - 1))
	e.skipUpdates(mvUpdateCount(s.allowHP))
}

func (s frameSpec) writeColorConfig(w *bitWriter) {
	if s.profile >= 2 {
		w.flag(s.twelveBit)
	}
	w.put(uint64(s.colorSpace), 3)
	if ColorSpace(s.colorSpace) != ColorSpaceRGB {
		w.put(0, 1)
		if s.profile == 1 || s.profile == 3 {
			w.flag(s.subX)
			w.flag(s.subY)
			w.flag(s.reservedBit)
		}
		return
	}
	if s.profile == 1 || s.profile == 3 {
		w.flag(s.reservedBit)
	}
}

func (s frameSpec) writeFrameSize(w *bitWriter) {
	w.put(uint64(s.width-1), 16)
	w.put(uint64(s.height-1), 16)
}

func (s frameSpec) writeRenderSize(w *bitWriter) {
	if s.renderWidth == 0 {
		w.put(0, 1)
		return
	}
	w.put(1, 1)
	w.put(uint64(s.renderWidth-1), 16)
	w.put(uint64(s.renderHeight-1), 16)
}

func writeSync(w *bitWriter, bad bool) {
	w.put(syncCode0, 8)
	w.put(syncCode1, 8)
	if bad {
		w.put(0x43, 8)
		return
	}
	w.put(syncCode2, 8)
}

func (s frameSpec) writeTileInfo(w *bitWriter, width uint32) {
	sb64Cols := (((width + 7) >> 3) + 7) >> 3
	var minLog2 uint8
	for (MaxTileWidthB64 << minLog2) < sb64Cols {
		minLog2++
	}
	maxLog2 := uint8(1)
	for (sb64Cols >> maxLog2) >= MinTileWidthB64 {
		maxLog2++
	}
	maxLog2--
	for i := minLog2; i < maxLog2; i++ {
		inc := i < s.tileColsLog2
		w.flag(inc)
		if !inc {
			break
		}
	}
	w.flag(s.tileRowsLog2 > 0)
	if s.tileRowsLog2 > 0 {
		w.flag(s.tileRowsLog2 > 1)
	}
}

// build serializes the frame. frameWidth is the width the parser will derive, needed for
// tile info when the size comes from a reference.
func (s frameSpec) build(frameWidth uint32) []byte {
	w := &bitWriter{}
	w.put(s.marker, 2)
	w.put(uint64(s.profile&1), 1)
	w.put(uint64(s.profile>>1), 1)
	if s.profile == 3 {
		w.flag(s.reservedBit)
	}
	if s.kind == specShowExisting {
		w.put(1, 1)
		w.put(uint64(s.existingSlot), 3)
		return w.bytes()
	}
	w.put(0, 1)
	w.flag(s.kind != specKey)
	w.flag(s.showFrame)
	w.flag(s.errorRes)

	switch s.kind {
	case specKey:
		writeSync(w, s.badSync)
		s.writeColorConfig(w)
		s.writeFrameSize(w)
		s.writeRenderSize(w)
	default:
		if !s.showFrame {
			w.flag(s.kind == specIntraOnly)
		}
		if !s.errorRes {
			w.put(uint64(s.reset), 2)
		}
		if s.kind == specIntraOnly {
			writeSync(w, s.badSync)
			if s.profile > 0 {
				s.writeColorConfig(w)
			}
			w.put(uint64(s.refresh), 8)
			s.writeFrameSize(w)
			s.writeRenderSize(w)
			break
		}
		w.put(uint64(s.refresh), 8)
		for i := 0; i < RefsPerFrame; i++ {
			w.put(uint64(s.refIdx[i]), 3)
			w.flag(s.signBias[i])
		}
		for i := 0; i < RefsPerFrame; i++ {
			found := i == s.foundRef
			w.flag(found)
			if found {
				break
			}
		}
		if s.foundRef < 0 {
			s.writeFrameSize(w)
		}
		s.writeRenderSize(w)
		w.flag(s.allowHP)
		w.flag(s.switchable)
		if !s.switchable {
			w.put(uint64(s.filter), 2)
		}
	}

	if !s.errorRes {
		w.flag(s.refreshCtx)
		w.flag(s.parallel)
	}
	w.put(uint64(s.ctxIdx), 2)

	w.put(uint64(s.lfLevel), 6)
	w.put(0, 3)
	w.flag(s.lfDeltas)
	if s.lfDeltas {
		w.put(1, 1)
		for i := 0; i < MaxRefFrames; i++ {
			w.put(1, 1)
			w.signed(-i, 6)
		}
		w.put(0, 1)
		w.put(1, 1)
		w.signed(5, 6)
	}

	w.put(uint64(s.baseQ), 8)
	w.put(0, 3)

	if s.segmentHook != nil {
		s.segmentHook(w)
	} else {
		w.put(0, 1)
	}

	if frameWidth == 0 {
		frameWidth = s.width
	}
	s.writeTileInfo(w, frameWidth)

	e := newBoolEncoder()
	e.writeBool(false, boolProbHalf)
	switch {
	case s.compressed != nil:
		s.compressed(e)
	case s.kind == specInter:
		s.writeInterCompressed(e)
	default:
		s.writeIntraCompressed(e)
	}
	comp := e.flush()

	size := len(comp)
	switch {
	case s.headerSize > 0:
		size = s.headerSize
	case s.headerSize < 0:
		size = 0
	}
	w.put(uint64(size), 16)

	out := append([]byte{}, w.bytes()...)
	out = append(out, comp...)
	return append(out, s.tileData...)
}
