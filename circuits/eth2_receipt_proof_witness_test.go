package circuit

import (
	"testing"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/subeth-bridge/core/ethreceipt"
)

func TestBuildEth2EventInclusionWitness_HashesReceiptAndPadsBranches(t *testing.T) {
	receipt := &ethtypes.Receipt{
		Type:              ethtypes.LegacyTxType,
		Status:            ethtypes.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		Logs:              []*ethtypes.Log{},
	}
	want, err := ethreceipt.RLPHash(receipt)
	require.NoError(t, err)

	in := Eth2EventInclusionWitnessInput{
		Receipt:            receipt,
		ReceiptBranch:      [][32]byte{{0x01}, {0x02}},
		ReceiptGIndexDepth: 2,
		ReceiptGIndex:      1,
		ReceiptsRoot:       [32]byte{0xAA},
		HeaderBranch:       [][32]byte{{0x03}},
		HeaderGIndexDepth:  1,
		HeaderGIndex:       0,
		ExeHeaderRoot:      [32]byte{0xBB},
		BodyBranch:         [][32]byte{{0x04}, {0x05}, {0x06}},
		BodyGIndexDepth:    3,
		BodyGIndex:         5,
		BlockRoot:          [32]byte{0xCC},
	}

	w, err := BuildEth2EventInclusionWitness(in)
	require.NoError(t, err)
	for i := 0; i < 32; i++ {
		require.EqualValues(t, want[i], w.ReceiptRLPHash[i])
	}
	require.EqualValues(t, 0x01, w.ReceiptBranch[0][0].Val)
	require.EqualValues(t, 0x02, w.ReceiptBranch[1][0].Val)
	require.EqualValues(t, 0, w.ReceiptBranch[2][0].Val) // padded, no-op sibling
	require.EqualValues(t, 0x06, w.BodyBranch[2][0].Val)
}

func TestBuildEth2EventInclusionWitness_RejectsOversizedBranch(t *testing.T) {
	receipt := &ethtypes.Receipt{Type: ethtypes.LegacyTxType, Status: ethtypes.ReceiptStatusSuccessful}
	branch := make([][32]byte, MaxSSZBranchDepth+1)

	_, err := BuildEth2EventInclusionWitness(Eth2EventInclusionWitnessInput{
		Receipt:       receipt,
		ReceiptBranch: branch,
	})
	require.Error(t, err)
}
