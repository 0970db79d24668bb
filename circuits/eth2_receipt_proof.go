package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
)

// Eth2EventInclusionCircuit proves that a transaction receipt (identified
// by the keccak256 hash of its typed RLP encoding, ethreceipt.RLPHash) is included in a finalized
// beacon block, by folding three SSZ generalized-index branches: the
// receipt leaf up into the execution payload's receipts_root, the
// receipts_root up into the execution payload header's own root, and that
// header root up into the beacon block body root (spec §6 enrichment,
// grounded on original_source's gear-programs/eth-events-electra package
// and generalized here from the teacher's eth2_receipt_proof.go stub,
// whose BeaconBlockHeader/branch field shapes this circuit keeps). The
// beacon block's own finality (that BlockRoot is actually finalized) is
// established separately by the light client, natively — this circuit
// only proves "this event is inside that block", not "that block is
// final".
type Eth2EventInclusionCircuit struct {
	ReceiptRLPHash     [32]frontend.Variable                     `gnark:",secret"`
	ReceiptBranch      [MaxSSZBranchDepth]Bytes32Target           `gnark:",secret"`
	ReceiptBranchDepth frontend.Variable                          `gnark:",secret"`
	ReceiptGIndex      frontend.Variable                          `gnark:",secret"`

	ReceiptsRoot        [32]frontend.Variable            `gnark:",secret"`
	HeaderBranch        [MaxSSZBranchDepth]Bytes32Target `gnark:",secret"`
	HeaderBranchDepth   frontend.Variable                `gnark:",secret"`
	HeaderGIndex        frontend.Variable                `gnark:",secret"`

	ExeHeaderRoot       [32]frontend.Variable            `gnark:",secret"`
	BodyBranch          [MaxSSZBranchDepth]Bytes32Target `gnark:",secret"`
	BodyBranchDepth     frontend.Variable                `gnark:",secret"`
	BodyGIndex          frontend.Variable                `gnark:",secret"`

	BlockRoot [32]frontend.Variable `gnark:",public"`
}

func (c *Eth2EventInclusionCircuit) Define(api frontend.API) error {
	h, err := sha2.New(api)
	if err != nil {
		return err
	}

	receiptsRootTarget := bytesToTarget(c.ReceiptsRoot)
	// Depth and gindex are per-network witness values (consts.GeneralizedIndex
	// at assembly time), threaded through as variables so a single compiled
	// circuit serves both pre-Electra and Electra proofs without
	// recompilation.
	VerifySSZBranch(api, h, bytesToTarget(c.ReceiptRLPHash), c.ReceiptBranch, c.ReceiptBranchDepth, c.ReceiptGIndex, receiptsRootTarget)

	exeHeaderTarget := bytesToTarget(c.ExeHeaderRoot)
	VerifySSZBranch(api, h, receiptsRootTarget, c.HeaderBranch, c.HeaderBranchDepth, c.HeaderGIndex, exeHeaderTarget)

	blockRootTarget := bytesToTarget(c.BlockRoot)
	VerifySSZBranch(api, h, exeHeaderTarget, c.BodyBranch, c.BodyBranchDepth, c.BodyGIndex, blockRootTarget)

	return nil
}

func bytesToTarget(b [32]frontend.Variable) Bytes32Target {
	var out Bytes32Target
	for i := range b {
		out[i] = ByteTarget{Val: b[i]}
	}
	return out
}
