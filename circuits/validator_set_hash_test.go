package circuit

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	gnark_test "github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/subeth-bridge/core/consts"
	"github.com/subeth-bridge/core/types"
)

func buildValidatorSetHashWitness(n int) (*ValidatorSetHashCircuit, [32]byte) {
	set := make([][32]byte, n)
	for i := range set {
		set[i][0] = byte(i + 1)
		set[i][31] = byte(i * 3)
	}
	hash := types.ComputeValidatorSetHash(set)

	w := &ValidatorSetHashCircuit{}
	for i := 0; i < consts.MaxValidatorCount; i++ {
		for b := 0; b < 32; b++ {
			if i < n {
				w.PubKeys[i][b] = int(set[i][b])
			} else {
				w.PubKeys[i][b] = 0
			}
		}
	}
	w.Count = n
	for i := 0; i < 32; i++ {
		w.Hash[i] = int(hash[i])
	}
	return w, hash
}

// TestValidatorSetHashCircuit_IsSolved exercises spec §8's property:
// verify(validator_set_hash_proof(S)) && public_input("hash") ==
// blake2_256(concat(S)), for a set padded well below MaxValidatorCount.
func TestValidatorSetHashCircuit_IsSolved(t *testing.T) {
	witness, _ := buildValidatorSetHashWitness(5)
	err := gnark_test.IsSolved(&ValidatorSetHashCircuit{}, witness, ecc.BN254.ScalarField())
	require.NoError(t, err, "circuit constraints should be satisfied for a correctly computed hash")
}

// TestValidatorSetHashCircuit_WrongHashFails checks that tampering with
// the claimed hash (without touching the set) makes the circuit unsolvable,
// i.e. verification cannot be forced to accept a mismatched commitment.
func TestValidatorSetHashCircuit_WrongHashFails(t *testing.T) {
	witness, hash := buildValidatorSetHashWitness(5)
	witness.Hash[0] = int(hash[0]) ^ 0xFF

	err := gnark_test.IsSolved(&ValidatorSetHashCircuit{}, witness, ecc.BN254.ScalarField())
	require.Error(t, err, "a tampered hash must not satisfy the circuit")
}

// TestValidatorSetHashCircuit_FullSet exercises the MaxValidatorCount
// boundary (no padding at all).
func TestValidatorSetHashCircuit_FullSet(t *testing.T) {
	witness, _ := buildValidatorSetHashWitness(consts.MaxValidatorCount)
	err := gnark_test.IsSolved(&ValidatorSetHashCircuit{}, witness, ecc.BN254.ScalarField())
	require.NoError(t, err)
}
