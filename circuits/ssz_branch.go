package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash"
	"github.com/consensys/gnark/std/math/uints"
)

// MaxSSZBranchDepth bounds the in-circuit generalized-index Merkle branch
// verifier; the deepest field this bridge proves inclusion of (a receipt
// inside an Electra execution payload's receipts root, composed with the
// payload's own depth under the beacon block) fits comfortably under this
// bound (spec §6, Ethereum-event-inclusion enrichment).
const MaxSSZBranchDepth = 32

// VerifySSZBranch folds leaf up MaxSSZBranchDepth sha256 hashPair steps,
// the first `depth` of them real and the rest no-ops (value passes through
// unchanged), following the generalized index's bit path, and asserts the
// result equals root. `depth` is a witness variable (not a Go constant) so
// one compiled circuit serves every fork's branch length (5/6/7 for
// sync-committee/finality twigs, deeper for receipt inclusion) without
// recompilation — the caller supplies the real per-network depth via
// consts.GeneralizedIndex. This is the in-circuit twin of
// sszmerkle.IsValidMerkleBranch, reusing the teacher's hashPair/sha2
// pattern from eth2_sc_update.go's verifyNextSyncCommitteeMerkleProof
// rather than introducing a second hashing style for the same algorithm.
func VerifySSZBranch(
	api frontend.API,
	h hash.BinaryFixedLengthHasher,
	leaf Bytes32Target,
	branch [MaxSSZBranchDepth]Bytes32Target,
	depth frontend.Variable, // real branch length; steps at or beyond it are no-ops
	index frontend.Variable, // generalized index's path bits, as an integer
	root Bytes32Target,
) {
	value := leaf
	bits := api.ToBinary(index, MaxSSZBranchDepth)
	for i := 0; i < MaxSSZBranchDepth; i++ {
		bit := bits[i]
		left := selectBytes32(api, bit, branch[i], value)
		right := selectBytes32(api, bit, value, branch[i])
		hashed := hashPair(api, h, left, right)
		active := api.IsZero(api.Add(api.Cmp(i, depth), 1)) // i < depth
		value = selectBytes32(api, active, hashed, value)
	}
	for i := 0; i < 32; i++ {
		api.AssertIsEqual(value[i].Val, root[i].Val)
	}
}

func selectBytes32(api frontend.API, cond frontend.Variable, a, b Bytes32Target) Bytes32Target {
	var out Bytes32Target
	for i := 0; i < 32; i++ {
		out[i] = ByteTarget{Val: api.Select(cond, a[i].Val, b[i].Val)}
	}
	return out
}

// hashPair sha256's the concatenation of two 32-byte values, matching the
// teacher's eth2_sc_update.go helper of the same name and purpose.
func hashPair(api frontend.API, h hash.BinaryFixedLengthHasher, a, b Bytes32Target) Bytes32Target {
	h.(interface{ Reset() }).Reset()
	aBytes := a.ToU8Array()
	bBytes := b.ToU8Array()
	h.Write(aBytes[:])
	h.Write(bBytes[:])
	sum := h.Sum()
	var out [32]uints.U8
	copy(out[:], sum)
	return U8sToBytes32(out)
}
