package types

import (
	"golang.org/x/crypto/blake2b"

	"github.com/subeth-bridge/core/consts"
)

// ComputeValidatorSetHash is the native (off-circuit) counterpart of
// circuit.computeValidatorSetHash: blake2_256(concat(pubkeys)) over the
// *unpadded* validator set (spec §3, §4.C). Used to build witnesses for
// ValidatorSetHashCircuit/SingleValidatorSignCircuit and as the test
// oracle for the "hash matches blake2_256(concat(S))" property (spec §8).
// Mirrors ComputeScPubKeysHash's shape (hash each key's canonical bytes
// into a running hasher, emit a 32-byte sum), generalized from SHA-256 to
// BLAKE2-256 since Substrate commits to authority sets with blake2_256.
func ComputeValidatorSetHash(pubkeys [][32]byte) [32]byte {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a too-long key argument; nil never
		// triggers it.
		panic(err)
	}
	for _, pk := range pubkeys {
		hasher.Write(pk[:])
	}
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// PadValidatorSet zero-pads pubkeys up to consts.MaxValidatorCount entries
// (spec §3: "Padded to MAX_VALIDATOR_COUNT * 32 bytes with explicit
// length"). Panics if pubkeys exceeds the bound — a caller-side invariant
// violation, not a recoverable error, since a validator set bigger than
// the circuit's fixed bound cannot be proved at all.
func PadValidatorSet(pubkeys [][32]byte) (padded [consts.MaxValidatorCount][32]byte, count int) {
	if len(pubkeys) > consts.MaxValidatorCount {
		panic("PadValidatorSet: validator set exceeds MaxValidatorCount")
	}
	for i, pk := range pubkeys {
		padded[i] = pk
	}
	return padded, len(pubkeys)
}

// TruncateValidatorSet is PadValidatorSet's inverse: re-truncating a
// padded set to its recorded count reproduces the original slice (spec
// §8's pad/truncate round-trip property).
func TruncateValidatorSet(padded [consts.MaxValidatorCount][32]byte, count int) [][32]byte {
	out := make([][32]byte, count)
	copy(out, padded[:count])
	return out
}
