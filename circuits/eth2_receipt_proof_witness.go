package circuit

import (
	"fmt"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/subeth-bridge/core/ethreceipt"
)

// Eth2EventInclusionWitnessInput names the three SSZ generalized-index
// branches Eth2EventInclusionCircuit folds in sequence (spec §6
// enrichment): the receipt leaf up to the execution payload's
// receipts_root, that root up to the execution payload header's own root,
// and that header root up to the beacon block body root.
type Eth2EventInclusionWitnessInput struct {
	Receipt *ethtypes.Receipt

	ReceiptBranch      [][32]byte
	ReceiptGIndexDepth uint64
	ReceiptGIndex      uint64

	ReceiptsRoot      [32]byte
	HeaderBranch      [][32]byte
	HeaderGIndexDepth uint64
	HeaderGIndex      uint64

	ExeHeaderRoot     [32]byte
	BodyBranch        [][32]byte
	BodyGIndexDepth   uint64
	BodyGIndex        uint64

	BlockRoot [32]byte
}

// BuildEth2EventInclusionWitness hashes in.Receipt the same way
// go-ethereum's own receipts trie does (ethreceipt.RLPHash) and assembles
// an Eth2EventInclusionCircuit assignment around it, so callers proving an
// Ethereum event's inclusion under a finalized beacon block never touch
// the circuit's raw field layout directly.
func BuildEth2EventInclusionWitness(in Eth2EventInclusionWitnessInput) (*Eth2EventInclusionCircuit, error) {
	receiptHash, err := ethreceipt.RLPHash(in.Receipt)
	if err != nil {
		return nil, fmt.Errorf("circuit: eth2 event inclusion witness: receipt hash: %w", err)
	}

	receiptBranch, err := padSSZBranch(in.ReceiptBranch)
	if err != nil {
		return nil, fmt.Errorf("circuit: eth2 event inclusion witness: receipt branch: %w", err)
	}
	headerBranch, err := padSSZBranch(in.HeaderBranch)
	if err != nil {
		return nil, fmt.Errorf("circuit: eth2 event inclusion witness: header branch: %w", err)
	}
	bodyBranch, err := padSSZBranch(in.BodyBranch)
	if err != nil {
		return nil, fmt.Errorf("circuit: eth2 event inclusion witness: body branch: %w", err)
	}

	w := &Eth2EventInclusionCircuit{
		ReceiptRLPHash:     bytesToVars(receiptHash),
		ReceiptBranch:      receiptBranch,
		ReceiptBranchDepth: in.ReceiptGIndexDepth,
		ReceiptGIndex:      in.ReceiptGIndex,

		ReceiptsRoot:      bytesToVars(in.ReceiptsRoot),
		HeaderBranch:      headerBranch,
		HeaderBranchDepth: in.HeaderGIndexDepth,
		HeaderGIndex:      in.HeaderGIndex,

		ExeHeaderRoot:   bytesToVars(in.ExeHeaderRoot),
		BodyBranch:      bodyBranch,
		BodyBranchDepth: in.BodyGIndexDepth,
		BodyGIndex:      in.BodyGIndex,

		BlockRoot: bytesToVars(in.BlockRoot),
	}
	return w, nil
}

// padSSZBranch right-pads branch with zero siblings up to MaxSSZBranchDepth
// (VerifySSZBranch's unused upper levels act as no-ops, the same shape
// TestVerifySSZBranch_IsSolved exercises for a shallower-than-max branch).
func padSSZBranch(branch [][32]byte) ([MaxSSZBranchDepth]Bytes32Target, error) {
	var out [MaxSSZBranchDepth]Bytes32Target
	if len(branch) > MaxSSZBranchDepth {
		return out, fmt.Errorf("branch length %d exceeds MaxSSZBranchDepth %d", len(branch), MaxSSZBranchDepth)
	}
	for i := 0; i < MaxSSZBranchDepth; i++ {
		var sib [32]byte
		if i < len(branch) {
			sib = branch[i]
		}
		out[i] = bytesToTarget(bytesToVars(sib))
	}
	return out, nil
}
