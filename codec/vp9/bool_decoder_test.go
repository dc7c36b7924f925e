package vp9

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/vp9parser"
)

type boolSymbol struct {
	bit  bool
	prob uint8
}

func randomSymbols(seed int64, n int) []boolSymbol {
	rng := rand.New(rand.NewSource(seed))
	out := make([]boolSymbol, n)
	for i := range out {
		prob := uint8(1 + rng.Intn(255))
		// Bias the bit towards the probability so both likely and unlikely symbols occur.
		out[i] = boolSymbol{bit: rng.Intn(256) >= int(prob), prob: prob}
	}
	return out
}

func TestBoolDecoder_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, seed := range []int64{1, 2, 3, 42} {
		symbols := randomSymbols(seed, 2000)
		e := newBoolEncoder()
		for _, s := range symbols {
			e.writeBool(s.bit, s.prob)
		}
		data := e.flush()

		d, err := NewBoolDecoder(data)
		require.NoError(t, err)
		for i, s := range symbols {
			require.Equal(t, s.bit, d.ReadBool(s.prob), "seed=%d symbol=%d", seed, i)
		}
		require.LessOrEqual(t, d.Consumed(), len(data))
	}
}

func TestBoolDecoder_Deterministic(t *testing.T) {
	t.Parallel()

	data := []byte{0x5a, 0xc3, 0x01, 0xff, 0x80, 0x12, 0x34, 0x56}
	probs := []uint8{1, 128, 252, 255, 17, 200, 64, 128, 3, 99}

	run := func() []bool {
		d, err := NewBoolDecoder(data)
		require.NoError(t, err)
		out := make([]bool, 0, 10*len(probs))
		for i := 0; i < 10; i++ {
			for _, p := range probs {
				out = append(out, d.ReadBool(p))
			}
		}
		return out
	}
	require.Equal(t, run(), run())
}

func TestBoolDecoder_Literal(t *testing.T) {
	t.Parallel()

	e := newBoolEncoder()
	e.literal(0b1011001, 7)
	e.literal(0, 3)
	e.literal(0xABCD, 16)
	d, err := NewBoolDecoder(e.flush())
	require.NoError(t, err)

	require.Equal(t, uint(0b1011001), d.ReadLiteral(7))
	require.Equal(t, uint(0), d.ReadLiteral(3))
	require.Equal(t, uint(0xABCD), d.ReadLiteral(16))
	require.Equal(t, uint(0), d.ReadLiteral(0))
}

func TestBoolDecoder_EmptyRange(t *testing.T) {
	t.Parallel()

	_, err := NewBoolDecoder(nil)
	require.True(t, errors.Is(err, vp9parser.ErrInvalidHeader))
}

func TestBoolDecoder_ZeroPadding(t *testing.T) {
	t.Parallel()

	d, err := NewBoolDecoder([]byte{0x00})
	require.NoError(t, err)
	require.True(t, d.Exhausted())
	for i := 0; i < 64; i++ {
		require.False(t, d.ReadBool(boolProbHalf))
	}
	require.Equal(t, 1, d.Consumed())
}

func TestBoolDecoder_ReadTree(t *testing.T) {
	t.Parallel()

	trees := map[string]Tree{
		"intra_mode":    IntraModeTree,
		"segment":       SegmentTree,
		"partition":     PartitionTree,
		"inter_mode":    InterModeTree,
		"interp_filter": InterpFilterTree,
		"mv_joint":      MvJointTree,
		"mv_class":      MvClassTree,
		"mv_class0":     MvClass0Tree,
		"mv_fr":         MvFrTree,
		"tx_size_8":     TxSize8Tree,
		"tx_size_16":    TxSize16Tree,
		"tx_size_32":    TxSize32Tree,
		"coef":          CoefTree,
	}
	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(int64(len(tree))))
			probs := make([]uint8, len(tree)/2)
			for i := range probs {
				probs[i] = uint8(1 + rng.Intn(255))
			}

			e := newBoolEncoder()
			for sym := 0; sym < tree.Leaves(); sym++ {
				e.tree(tree, probs, sym)
			}
			d, err := NewBoolDecoder(e.flush())
			require.NoError(t, err)
			for sym := 0; sym < tree.Leaves(); sym++ {
				got, err := d.ReadTree(tree, probs)
				require.NoError(t, err)
				require.Equal(t, sym, got)
			}
		})
	}
}

func TestBoolDecoder_ReadTreeMalformed(t *testing.T) {
	t.Parallel()

	d, err := NewBoolDecoder([]byte{0xff, 0xff, 0xff})
	require.NoError(t, err)
	_, err = d.ReadTree(Tree{2, 4}, []uint8{128})
	require.True(t, errors.Is(err, vp9parser.ErrInvalidHeader))
}

func TestTree_Leaves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tree Tree
		want int
	}{
		{IntraModeTree, IntraModes},
		{SegmentTree, MaxSegments},
		{PartitionTree, PartitionTypes},
		{InterModeTree, InterModes},
		{MvJointTree, MvJoints},
		{MvClassTree, MvClasses},
		{MvFrTree, MvFrSize},
		{TxSize32Tree, TxSizes},
		{CoefTree, EntropyTokens},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.tree.Leaves())
		require.Equal(t, tt.want-1, len(tt.tree)/2)
	}
}
