// Package ethreceipt computes the leaf value Eth2EventInclusionCircuit's
// ReceiptRLPHash commits to: keccak256 of an Ethereum transaction
// receipt's typed RLP encoding (spec §6 enrichment, the
// Ethereum-event-inclusion feature grounded on original_source's
// gear-programs/eth-events-electra package). This is the Ethereum-side
// half of storage-inclusion witness assembly — go-ethereum's own
// receipts-trie leaf encoding (core/types.Receipts.EncodeIndex,
// core/types.DeriveSha), not Substrate's nibbled Patricia trie that
// storageproof parses.
package ethreceipt

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// RLPHash returns keccak256(receipt.MarshalBinary()) — the same byte
// encoding go-ethereum's receipts trie stores at a transaction's index,
// so a branch proved against it with circuits.VerifySSZBranch starting
// from this hash is proving inclusion of the real on-chain receipt, not a
// re-derived approximation of it.
func RLPHash(r *types.Receipt) ([32]byte, error) {
	enc, err := r.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], crypto.Keccak256(enc))
	return out, nil
}
