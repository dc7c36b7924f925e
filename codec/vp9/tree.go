package vp9

// TreeIndex is one entry of a binary decoding tree. Positive values index the next node
// pair, non-positive values are negated leaf symbols.
type TreeIndex int8

// Tree is a binary tree encoded as pairs of TreeIndex; node i uses probability probs[i>>1].
type Tree []TreeIndex

// Intra prediction modes.
const (
	DCPred = iota
	VPred
	HPred
	D45Pred
	D135Pred
	D117Pred
	D153Pred
	D207Pred
	D63Pred
	TMPred
	IntraModes
)

// Inter prediction modes, offset from NEARESTMV.
const (
	NearestMv = iota
	NearMv
	ZeroMv
	NewMv
	InterModes
)

// Partition types.
const (
	PartitionNone = iota
	PartitionHorz
	PartitionVert
	PartitionSplit
	PartitionTypes
)

// Motion vector joints.
const (
	MvJointZero   = iota // both components zero
	MvJointHnzvz         // horizontal nonzero
	MvJointHzvnz         // vertical nonzero
	MvJointHnzvnz        // both nonzero
	MvJoints
)

// Coefficient tokens.
const (
	ZeroToken = iota
	OneToken
	TwoToken
	ThreeToken
	FourToken
	Category1Token
	Category2Token
	Category3Token
	Category4Token
	Category5Token
	Category6Token
	EOBToken
	EntropyTokens
)

var (
	IntraModeTree = Tree{
		-DCPred, 2,
		-TMPred, 4,
		-VPred, 6,
		8, 12,
		-HPred, 10,
		-D135Pred, -D117Pred,
		-D45Pred, 14,
		-D63Pred, 16,
		-D153Pred, -D207Pred,
	}

	SegmentTree = Tree{2, 4, 6, 8, 10, 12, 0, -1, -2, -3, -4, -5, -6, -7}

	PartitionTree = Tree{
		-PartitionNone, 2,
		-PartitionHorz, 4,
		-PartitionVert, -PartitionSplit,
	}

	InterModeTree = Tree{
		-ZeroMv, 2,
		-NearestMv, 4,
		-NearMv, -NewMv,
	}

	InterpFilterTree = Tree{
		-TreeIndex(EightTap), 2,
		-TreeIndex(EightTapSmooth), -TreeIndex(EightTapSharp),
	}

	MvJointTree = Tree{
		-MvJointZero, 2,
		-MvJointHnzvz, 4,
		-MvJointHzvnz, -MvJointHnzvnz,
	}

	MvClassTree = Tree{
		-0, 2,
		-1, 4,
		6, 8,
		-2, -3,
		10, 12,
		-4, -5,
		-6, 14,
		16, 18,
		-7, -8,
		-9, -10,
	}

	MvClass0Tree = Tree{-0, -1}

	MvFrTree = Tree{
		-0, 2,
		-1, 4,
		-2, -3,
	}

	TxSize8Tree  = Tree{-Tx4x4, -Tx8x8}
	TxSize16Tree = Tree{-Tx4x4, 2, -Tx8x8, -Tx16x16}
	TxSize32Tree = Tree{-Tx4x4, 2, -Tx8x8, 4, -Tx16x16, -Tx32x32}

	CoefTree = Tree{
		-EOBToken, 2,
		-ZeroToken, 4,
		-OneToken, 6,
		8, 12,
		-TwoToken, 10,
		-ThreeToken, -FourToken,
		14, 16,
		-Category1Token, -Category2Token,
		18, 20,
		-Category3Token, -Category4Token,
		-Category5Token, -Category6Token,
	}
)

// Leaves returns the number of leaf symbols in t.
func (t Tree) Leaves() int {
	n := 0
	for _, v := range t {
		if v <= 0 {
			n++
		}
	}
	return n
}
