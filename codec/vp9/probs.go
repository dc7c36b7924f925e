//nolint:mnd // probability table dimensions.
package vp9

import (
	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
)

const (
	TxSizeContexts       = 2
	SkipContexts         = 3
	InterModeContexts    = 7
	InterpFilterContexts = 4
	IsInterContexts      = 4
	CompInterContexts    = 5
	RefContexts          = 5
	BlockSizeGroups      = 4
	PartitionContexts    = 16
	PlaneTypes           = 2
	RefTypes             = 2
	CoefBands            = 6
	PrevCoefContexts     = 6
	UnconstrainedNodes   = 3
	MvClasses            = 11
	Class0Size           = 2
	MvOffsetBits         = 10
	MvFrSize             = 4
)

// CoefProbs is indexed by [txSize][plane][ref][band][context][node].
type CoefProbs [TxSizes][PlaneTypes][RefTypes][CoefBands][PrevCoefContexts][UnconstrainedNodes]uint8

// MvComponentProbs holds the probabilities of one motion vector component.
type MvComponentProbs struct {
	Sign     uint8
	Classes  [MvClasses - 1]uint8
	Class0   [Class0Size - 1]uint8
	Bits     [MvOffsetBits]uint8
	Class0Fr [Class0Size][MvFrSize - 1]uint8
	Fr       [MvFrSize - 1]uint8
	Class0Hp uint8
	Hp       uint8
}

// MvProbs holds the joint and per-component motion vector probabilities.
type MvProbs struct {
	Joints [MvJoints - 1]uint8
	Comps  [2]MvComponentProbs
}

// ProbabilityTables is one frame context: every probability the compressed header can
// update. It contains only arrays, so assignment is a deep copy.
type ProbabilityTables struct {
	Tx8x8        [TxSizeContexts][TxSizes - 3]uint8
	Tx16x16      [TxSizeContexts][TxSizes - 2]uint8
	Tx32x32      [TxSizeContexts][TxSizes - 1]uint8
	Coef         CoefProbs
	Skip         [SkipContexts]uint8
	InterMode    [InterModeContexts][InterModes - 1]uint8
	InterpFilter [InterpFilterContexts][Switchable - 2]uint8
	IsInter      [IsInterContexts]uint8
	CompMode     [CompInterContexts]uint8
	SingleRef    [RefContexts][2]uint8
	CompRef      [RefContexts]uint8
	YMode        [BlockSizeGroups][IntraModes - 1]uint8
	UVMode       [IntraModes][IntraModes - 1]uint8
	Partition    [PartitionContexts][PartitionTypes - 1]uint8
	Mv           MvProbs
}

var defaultMvComponent = [2]MvComponentProbs{
	{
		Sign:     128,
		Classes:  [MvClasses - 1]uint8{224, 144, 192, 168, 192, 176, 192, 198, 198, 245},
		Class0:   [Class0Size - 1]uint8{216},
		Bits:     [MvOffsetBits]uint8{136, 140, 148, 160, 176, 192, 224, 234, 234, 240},
		Class0Fr: [Class0Size][MvFrSize - 1]uint8{{128, 128, 64}, {96, 112, 64}},
		Fr:       [MvFrSize - 1]uint8{64, 96, 64},
		Class0Hp: 160,
		Hp:       128,
	},
	{
		Sign:     128,
		Classes:  [MvClasses - 1]uint8{216, 128, 176, 160, 176, 176, 192, 198, 198, 208},
		Class0:   [Class0Size - 1]uint8{208},
		Bits:     [MvOffsetBits]uint8{136, 140, 148, 160, 176, 192, 224, 234, 234, 240},
		Class0Fr: [Class0Size][MvFrSize - 1]uint8{{128, 128, 64}, {96, 112, 64}},
		Fr:       [MvFrSize - 1]uint8{64, 96, 64},
		Class0Hp: 160,
		Hp:       128,
	},
}

var defaultProbabilities = ProbabilityTables{
	Tx8x8:   [TxSizeContexts][TxSizes - 3]uint8{{100}, {66}},
	Tx16x16: [TxSizeContexts][TxSizes - 2]uint8{{20, 152}, {15, 101}},
	Tx32x32: [TxSizeContexts][TxSizes - 1]uint8{{3, 136, 37}, {5, 52, 13}},
	Coef:    defaultCoefProbs,
	Skip:    [SkipContexts]uint8{192, 128, 64},
	InterMode: [InterModeContexts][InterModes - 1]uint8{
		{2, 173, 34}, {7, 145, 85}, {7, 166, 63}, {7, 94, 66},
		{8, 64, 46}, {17, 81, 31}, {25, 29, 30},
	},
	InterpFilter: [InterpFilterContexts][Switchable - 2]uint8{
		{235, 162}, {36, 255}, {34, 3}, {149, 144},
	},
	IsInter:   [IsInterContexts]uint8{9, 102, 187, 225},
	CompMode:  [CompInterContexts]uint8{239, 183, 119, 96, 41},
	SingleRef: [RefContexts][2]uint8{{33, 16}, {77, 74}, {142, 142}, {172, 170}, {238, 247}},
	CompRef:   [RefContexts]uint8{50, 126, 123, 221, 226},
	YMode: [BlockSizeGroups][IntraModes - 1]uint8{
		{65, 32, 18, 144, 162, 194, 41, 51, 98},
		{132, 68, 18, 165, 217, 196, 45, 40, 78},
		{173, 80, 19, 176, 240, 193, 64, 35, 46},
		{221, 135, 38, 194, 248, 121, 96, 85, 29},
	},
	UVMode: [IntraModes][IntraModes - 1]uint8{
		{120, 7, 76, 176, 208, 126, 28, 54, 103},
		{48, 12, 154, 155, 139, 90, 34, 117, 119},
		{67, 6, 25, 204, 243, 158, 13, 21, 96},
		{97, 5, 44, 131, 176, 139, 48, 68, 97},
		{83, 5, 42, 156, 111, 152, 26, 49, 152},
		{80, 5, 58, 178, 74, 83, 33, 62, 145},
		{86, 5, 32, 154, 192, 168, 14, 22, 163},
		{85, 5, 32, 156, 216, 148, 19, 29, 73},
		{77, 7, 64, 116, 132, 122, 37, 126, 120},
		{101, 21, 107, 181, 192, 103, 19, 67, 125},
	},
	Partition: [PartitionContexts][PartitionTypes - 1]uint8{
		// 8x8
		{199, 122, 141}, {147, 63, 159}, {148, 133, 118}, {121, 104, 114},
		// 16x16
		{174, 73, 87}, {92, 41, 83}, {82, 99, 50}, {53, 39, 39},
		// 32x32
		{177, 58, 59}, {68, 26, 63}, {52, 79, 25}, {17, 14, 12},
		// 64x64
		{222, 34, 30}, {72, 16, 44}, {58, 32, 12}, {10, 7, 6},
	},
	Mv: MvProbs{
		Joints: [MvJoints - 1]uint8{32, 64, 96},
		Comps:  defaultMvComponent,
	},
}

// DefaultProbabilities returns a copy of the default frame context.
func DefaultProbabilities() ProbabilityTables {
	return defaultProbabilities
}

// ProbabilityContext holds the four persisted frame contexts of a stream.
type ProbabilityContext struct {
	slots [NumFrameContexts]ProbabilityTables
}

// NewProbabilityContext returns a context with every slot set to the defaults.
func NewProbabilityContext() ProbabilityContext {
	var c ProbabilityContext
	c.ResetAll()
	return c
}

func checkSlot(idx int) error {
	if idx < 0 || idx >= NumFrameContexts {
		return errors.Wrapf(vp9parser.ErrInvalidHeader, "vp9: frame context %d out of range", idx)
	}
	return nil
}

// Select returns a copy of slot idx.
func (c *ProbabilityContext) Select(idx int) (t ProbabilityTables, err error) {
	if err = checkSlot(idx); err != nil {
		return
	}
	return c.slots[idx], nil
}

// Commit replaces slot idx with t.
func (c *ProbabilityContext) Commit(idx int, t *ProbabilityTables) error {
	if err := checkSlot(idx); err != nil {
		return err
	}
	c.slots[idx] = *t
	return nil
}

// ResetAll sets every slot to the defaults.
func (c *ProbabilityContext) ResetAll() {
	for i := range c.slots {
		c.slots[i] = defaultProbabilities
	}
}

// ResetOne sets slot idx to the defaults.
func (c *ProbabilityContext) ResetOne(idx int) error {
	return c.Commit(idx, &defaultProbabilities)
}

// IsDefault reports whether slot idx holds the default tables.
func (c *ProbabilityContext) IsDefault(idx int) bool {
	return checkSlot(idx) == nil && c.slots[idx] == defaultProbabilities
}
