package circuit

import "github.com/consensys/gnark/frontend"

// Eth2ScUpdateTargets is Eth2ScUpdateCircuit's public-witness schema: the
// sync committee pubkey hash the circuit checked and the next-committee SSZ
// root it proved inclusion of, in declaration order. Wrapping these in a
// TargetSet lets the replay-back sub-protocol verify an
// Eth2ScUpdateCircuit proof through the same ProofWithCircuitData.Verify
// path the compositor uses, instead of re-deriving gnark's witness layout
// by hand.
type Eth2ScUpdateTargets struct {
	ScPubKeysHash Bytes32Target
	NextScRoot    Bytes32Target
}

// Flatten implements TargetSet, in the same field order Eth2ScUpdateCircuit
// declares its public fields.
func (t Eth2ScUpdateTargets) Flatten() []frontend.Variable {
	return append(t.ScPubKeysHash.Flatten(), t.NextScRoot.Flatten()...)
}

// BytesToBytes32Target lifts a concrete 32-byte value into a Bytes32Target
// for building an off-circuit public witness (e.g. the replay-back
// sub-protocol's independently recomputed expected public inputs).
func BytesToBytes32Target(b [32]byte) Bytes32Target {
	var out Bytes32Target
	for i, v := range b {
		out[i] = ByteTarget{Val: v}
	}
	return out
}

// NewEth2ScUpdateTargets builds the expected public witness for an
// Eth2ScUpdateCircuit proof from the sync-committee pubkey hash and the
// next-committee SSZ root the caller independently computed.
func NewEth2ScUpdateTargets(scPubKeysHash, nextScRoot [32]byte) Eth2ScUpdateTargets {
	return Eth2ScUpdateTargets{
		ScPubKeysHash: BytesToBytes32Target(scPubKeysHash),
		NextScRoot:    BytesToBytes32Target(nextScRoot),
	}
}
