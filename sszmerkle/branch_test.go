package sszmerkle

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidMerkleBranch_DepthOne(t *testing.T) {
	var leaf, sibling [32]byte
	leaf[0] = 1
	sibling[0] = 2

	h := sha256.New()
	h.Write(leaf[:])
	h.Write(sibling[:])
	var root [32]byte
	copy(root[:], h.Sum(nil))

	require.True(t, IsValidMerkleBranch(leaf, [][32]byte{sibling}, 1, 0, root))
	require.False(t, IsValidMerkleBranch(leaf, [][32]byte{sibling}, 1, 1, root))
}

func TestIsValidMerkleBranch_WrongDepthRejected(t *testing.T) {
	var leaf, root [32]byte
	require.False(t, IsValidMerkleBranch(leaf, [][32]byte{{}, {}}, 1, 0, root))
}

func TestGeneralizedIndexBitLen(t *testing.T) {
	require.Equal(t, 0, GeneralizedIndexBitLen(1))
	require.Equal(t, 5, GeneralizedIndexBitLen(0b100110))
}
