package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/subeth-bridge/core/consts"
)

func testSet(n int) [][32]byte {
	out := make([][32]byte, n)
	for i := range out {
		out[i][0] = byte(i)
		out[i][31] = byte(i * 7)
	}
	return out
}

func TestComputeValidatorSetHashMatchesBlake2bOverConcatenation(t *testing.T) {
	set := testSet(5)
	got := ComputeValidatorSetHash(set)

	var flat []byte
	for _, pk := range set {
		flat = append(flat, pk[:]...)
	}
	want := blake2b.Sum256(flat)
	require.Equal(t, want, got)
}

func TestComputeValidatorSetHashDiffersOnReorder(t *testing.T) {
	set := testSet(4)
	h1 := ComputeValidatorSetHash(set)

	reordered := make([][32]byte, len(set))
	copy(reordered, set)
	reordered[0], reordered[1] = reordered[1], reordered[0]
	h2 := ComputeValidatorSetHash(reordered)

	require.NotEqual(t, h1, h2)
}

func TestPadValidatorSetIsLengthExactAndZeroTailed(t *testing.T) {
	set := testSet(3)
	padded, count := PadValidatorSet(set)
	require.Equal(t, 3, count)
	require.Equal(t, consts.MaxValidatorCount, len(padded))
	for i := 3; i < consts.MaxValidatorCount; i++ {
		require.Equal(t, [32]byte{}, padded[i])
	}
}

func TestPadThenTruncateRoundTrips(t *testing.T) {
	set := testSet(7)
	padded, count := PadValidatorSet(set)
	got := TruncateValidatorSet(padded, count)
	require.Equal(t, set, got)
}

func TestPadValidatorSetPanicsOverBound(t *testing.T) {
	require.Panics(t, func() {
		PadValidatorSet(testSet(consts.MaxValidatorCount + 1))
	})
}
