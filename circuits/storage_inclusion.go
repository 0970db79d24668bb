package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/subeth-bridge/core/circuits/blake2"
)

// MaxStorageProofDepth bounds the number of trie levels the in-circuit
// verifier folds over; proofs shallower than this pad with no-op steps
// (spec §4.E). Substrate state tries in practice never exceed this depth
// for the single-key lookups this bridge proves.
const MaxStorageProofDepth = 16

// StorageInclusionTargets is the public-input schema: the state root the
// proof is rooted at, and the value (committed by its hash, since leaf
// values in this bridge's proofs are always hashed-value leaves) found at
// the proven key.
type StorageInclusionTargets struct {
	StateRoot Bytes32Target
	ValueHash Bytes32Target
}

func (t StorageInclusionTargets) Flatten() []frontend.Variable {
	return append(t.StateRoot.Flatten(), t.ValueHash.Flatten()...)
}

// StorageInclusionCircuit proves that ValueHash is reachable from
// StateRoot by walking a Substrate nibbled Patricia-Merkle trie path of at
// most MaxStorageProofDepth nodes. Each step parses its node's header
// byte(s) the way storageproof.ParseHeader does (variant bits, nibble
// count, children bitmap) as real in-circuit constraints, then extracts
// the next node's reference from the byte position the header/bitmap
// actually point to — it is not enough for each step's hash to equal some
// claimed parent value; the parent's bytes must *contain* that value at
// the position its own header says a child lives.
//
// Only the non-extended nibble-count encoding is supported (partial keys
// of at most 62 nibbles per node); storageproof.ParseHeader's extension-
// byte case (NibbleCount >= 63) is rejected rather than parsed, since
// single-key storage proofs in practice never need a partial key that
// long at any one trie level. Grounded on original_source's
// header_parser.rs two-case header decode and storageproof.WalkPath,
// whose Step fields (Header, Nibbles, NextChildIdx) this circuit's
// per-level secret witness mirrors.
type StorageInclusionCircuit struct {
	// NodeBytes[i] holds node i's raw encoding from index 0, followed by
	// zero bytes up to MaxNodeLen; NodeLen[i] is its true byte length (BLAKE2
	// hashing must only cover real bytes, so the padding is excluded via
	// per-step Write length gating below).
	NodeBytes [MaxStorageProofDepth][MaxNodeLen]frontend.Variable `gnark:",secret"`
	NodeLen   [MaxStorageProofDepth]frontend.Variable             `gnark:",secret"`
	Active    [MaxStorageProofDepth]frontend.Variable             `gnark:",secret"` // 1 for real steps, 0 for padding

	// NextChildIdx[i] is the branch slot (0..15) this step's lookup key
	// descends into; meaningless (and unconstrained beyond range) at leaf
	// steps and padding steps. Mirrors storageproof.Step.NextChildIdx.
	NextChildIdx [MaxStorageProofDepth]frontend.Variable `gnark:",secret"`
	ValueAt      frontend.Variable                       `gnark:",secret"` // step index holding the terminal hashed-value leaf

	StateRoot [32]frontend.Variable `gnark:",public"`
	ValueHash [32]frontend.Variable `gnark:",public"`
}

// MaxNodeLen bounds a single trie node's encoded byte length the circuit
// will hash; branch nodes with 16 child hash references are the largest
// node kind this bridge's proofs traverse (2-byte bitmap + up to 16*32
// child hashes plus a short partial key).
const MaxNodeLen = 600

// selectWindow32 reads a 32-byte window out of data starting at the
// witness-dependent offset start, via an equality-gated select over every
// byte position the window could legally start at. This is the in-circuit
// substitute for a native slice expression: start is not known at compile
// time, so every candidate start is tried and masked out except the one
// matching the witness.
func selectWindow32(api frontend.API, data []frontend.Variable, start frontend.Variable) [32]frontend.Variable {
	var out [32]frontend.Variable
	maxStart := len(data) - 32
	for s := 0; s <= maxStart; s++ {
		isStart := api.IsZero(api.Sub(start, s))
		for b := 0; b < 32; b++ {
			out[b] = api.Select(isStart, data[s+b], out[b])
		}
	}
	return out
}

func (c *StorageInclusionCircuit) Define(api frontend.API) error {
	var expectedRef [32]frontend.Variable
	copy(expectedRef[:], c.StateRoot[:])

	for i := 0; i < MaxStorageProofDepth; i++ {
		hs := blake2.NewHasher256(api)
		// Write is length-exact at compile time, but the true byte count
		// varies per witness; gate each byte's contribution to the
		// accumulated digest by a mask so only the first NodeLen[i] bytes
		// affect the hash, without making the hasher's wire count
		// witness-dependent.
		masked := make([]frontend.Variable, MaxNodeLen)
		for b := 0; b < MaxNodeLen; b++ {
			inRange := api.IsZero(api.Add(api.Cmp(b, c.NodeLen[i]), 1)) // 1 iff b < NodeLen[i]
			masked[b] = api.Select(inRange, c.NodeBytes[i][b], 0)
		}
		hs.Write(masked)
		nodeHash := hs.Sum()

		isActive := c.Active[i]
		for b := 0; b < 32; b++ {
			// When this step is active, the reference extracted from the
			// previous step's node (or StateRoot, at step 0) must equal
			// this node's own hash; inactive (padding) steps assert
			// nothing.
			expected := api.Select(isActive, expectedRef[b], nodeHash[b])
			api.AssertIsEqual(expected, nodeHash[b])
		}

		// --- header parse: variant bits, nibble count, children bitmap ---
		first := c.NodeBytes[i][0]
		firstBits := api.ToBinary(first, 8) // LSB first
		bit7, bit6 := firstBits[7], firstBits[6]
		isBranch := api.Mul(bit7, api.Sub(1, bit6))   // top2 == 0b10
		isLeaf := api.Mul(api.Sub(1, bit7), bit6)      // top2 == 0b01

		// Only active steps are required to decode as one of the two
		// supported variants; padding steps (all-zero node bytes) would
		// otherwise fail this as top2 == 0b00.
		api.AssertIsEqual(api.Mul(isActive, api.Sub(api.Add(isBranch, isLeaf), 1)), 0)

		lowBits := api.FromBinary(firstBits[0:6]...) // first & 0x3F
		// Reject the extension-byte nibble-count encoding (lowBits == 63);
		// only direct-encoded nibble counts (0..62) are supported.
		api.AssertIsEqual(api.Mul(isActive, api.IsZero(api.Sub(lowBits, 63))), 0)

		lowBits7 := api.ToBinary(lowBits, 7)
		isOddCount := lowBits7[0]
		halfCount := api.FromBinary(lowBits7[1:7]...)
		partialKeyByteLen := api.Add(halfCount, isOddCount) // ceil(nibbleCount/2)

		headerLen := api.Select(isBranch, 3, 1) // 1 header byte (+2 bitmap bytes if branch)
		afterPartialKey := api.Add(headerLen, partialKeyByteLen)

		// Terminal step must be the hashed-value leaf; every other active
		// step must be a branch (a Patricia path only ever ends in a leaf).
		isTerminal := api.IsZero(api.Sub(c.ValueAt, i))
		api.AssertIsEqual(api.Mul(isActive, api.Sub(isTerminal, isLeaf)), 0)

		// children bitmap: 2 bytes right after the header byte.
		childrenMaskBits := api.ToBinary(api.Add(c.NodeBytes[i][1], api.Mul(c.NodeBytes[i][2], 256)), 16)
		nextChildBits := api.ToBinary(c.NextChildIdx[i], 4) // range-checks NextChildIdx[i] < 16
		nextChildIdx := api.FromBinary(nextChildBits...)
		var popcountBelow frontend.Variable = 0
		for j := 0; j < 16; j++ {
			below := api.IsZero(api.Add(api.Cmp(j, nextChildIdx), 1)) // 1 iff j < NextChildIdx[i]
			popcountBelow = api.Add(popcountBelow, api.Mul(childrenMaskBits[j], below))
		}
		// A branch node lists a 32-byte hash only for each present child,
		// in ascending slot order; this step's child reference sits after
		// however many present lower-indexed slots precede it.
		childOffset := api.Add(afterPartialKey, api.Mul(32, popcountBelow))

		// For a leaf step the value hash sits right after the partial key
		// (no children list); for a branch step the next reference sits at
		// childOffset. isBranch selects which offset actually applies.
		nextOffset := api.Select(isBranch, childOffset, afterPartialKey)
		nextBytes := selectWindow32(api, c.NodeBytes[i][:], nextOffset)

		for b := 0; b < 32; b++ {
			expectedRef[b] = api.Select(isActive, nextBytes[b], expectedRef[b])
		}
	}

	for b := 0; b < 32; b++ {
		api.AssertIsEqual(expectedRef[b], c.ValueHash[b])
	}
	return nil
}
