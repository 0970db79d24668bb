package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStorageInclusionWitness_SingleLeaf(t *testing.T) {
	var valueHash [32]byte
	valueHash[0] = 0xEF

	// Root is itself a hashed-value leaf with an empty partial key: header
	// byte 0b01_000000 (leaf, nibble count 0), no partial-key bytes, then
	// the 32-byte value hash.
	rawNode := append([]byte{0b01_000000}, valueHash[:]...)
	stateRoot := blake2Sum256(rawNode)

	w, err := BuildStorageInclusionWitness(stateRoot, [][]byte{rawNode}, []byte{})
	require.NoError(t, err)
	require.EqualValues(t, 1, w.Active[0])
	require.EqualValues(t, 0, w.ValueAt)
	for i := 0; i < 32; i++ {
		require.EqualValues(t, stateRoot[i], w.StateRoot[i])
		require.EqualValues(t, valueHash[i], w.ValueHash[i])
	}
	for i := 1; i < MaxStorageProofDepth; i++ {
		require.EqualValues(t, 0, w.Active[i])
	}
}

func TestBuildStorageInclusionWitness_RootMismatchErrors(t *testing.T) {
	var valueHash [32]byte
	rawNode := append([]byte{0b01_000000}, valueHash[:]...)
	var wrongRoot [32]byte
	wrongRoot[0] = 0xFF

	_, err := BuildStorageInclusionWitness(wrongRoot, [][]byte{rawNode}, []byte{})
	require.Error(t, err)
}

func TestBuildStorageInclusionWitness_RejectsTooManyNodes(t *testing.T) {
	nodes := make([][]byte, MaxStorageProofDepth+1)
	for i := range nodes {
		nodes[i] = []byte{0b01_000000}
	}
	_, err := BuildStorageInclusionWitness([32]byte{}, nodes, []byte{})
	require.Error(t, err)
}
