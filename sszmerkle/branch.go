// Package sszmerkle verifies SSZ generalized-index Merkle branches
// natively (no circuit), the check the beacon light client runs directly
// against gossiped LightClientUpdate branches (spec §3, §6) rather than
// inside a SNARK — beacon light-client verification stays off-circuit in
// this bridge, matching how the GRANDPA side is the half that gets
// wrapped in zk-SNARKs (spec overview).
package sszmerkle

import "crypto/sha256"

// IsValidMerkleBranch checks that leaf, combined with branch at the given
// generalized index, hashes up to root. depth is branch's length; index
// is the generalized index's position at that depth (consts.GeneralizedIndex.Index,
// already stripped of its leading 1 bit). Grounded on the beacon-chain
// spec's is_valid_merkle_branch, the same algorithm zrnt's merkle-proof
// verification (vendored in this module's dependency set) implements.
func IsValidMerkleBranch(leaf [32]byte, branch [][32]byte, depth int, index uint64, root [32]byte) bool {
	if len(branch) != depth {
		return false
	}
	value := leaf
	for i := 0; i < depth; i++ {
		if (index>>uint(i))&1 == 1 {
			value = hashPair(branch[i], value)
		} else {
			value = hashPair(value, branch[i])
		}
	}
	return value == root
}

func hashPair(a, b [32]byte) [32]byte {
	h := sha256.New()
	h.Write(a[:])
	h.Write(b[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GeneralizedIndexBitLen returns the number of low bits of a generalized
// index that encode the branch-direction path (its bit length minus the
// leading 1), used to convert a raw SSZ generalized index into the
// (depth, index) pair consts.GeneralizedIndex stores.
func GeneralizedIndexBitLen(gindex uint64) int {
	n := 0
	for g := gindex; g > 1; g >>= 1 {
		n++
	}
	return n
}
