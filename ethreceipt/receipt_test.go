package ethreceipt

import (
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func testReceipt() *types.Receipt {
	return &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		Logs:              []*types.Log{},
	}
}

func TestRLPHashMatchesKeccakOfMarshalBinary(t *testing.T) {
	r := testReceipt()
	got, err := RLPHash(r)
	require.NoError(t, err)

	enc, err := r.MarshalBinary()
	require.NoError(t, err)
	want := crypto.Keccak256Hash(enc)
	require.Equal(t, want.Bytes(), got[:])
}

func TestRLPHashChangesWithReceiptContent(t *testing.T) {
	r1 := testReceipt()
	r2 := testReceipt()
	r2.CumulativeGasUsed = 42000

	h1, err := RLPHash(r1)
	require.NoError(t, err)
	h2, err := RLPHash(r2)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
