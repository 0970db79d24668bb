package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/subeth-bridge/core/circuits/blake2"
	"github.com/subeth-bridge/core/consts"
)

// ValidatorSetHashTargets is the public-input schema for
// ValidatorSetHashCircuit: the commitment produced over a padded validator
// set (spec §4.C).
type ValidatorSetHashTargets struct {
	Hash Bytes32Target
}

func (t ValidatorSetHashTargets) Flatten() []frontend.Variable { return t.Hash.Flatten() }

// ValidatorSetHashCircuit proves that Hash == blake2_256(concat(pubkeys)),
// over a fixed-size, zero-padded MaxValidatorCount array of Ed25519 public
// keys — the commitment GRANDPA validator-set-rotation proofs chain
// against (spec §4.C). Grounded on the teacher's ComputeScPubKeysHash
// (types/lightclient.go), generalized from SHA-256 over BLS pubkeys to
// BLAKE2-256 over Ed25519 pubkeys, since Substrate authority sets commit
// with blake2_256 rather than SHA-256.
type ValidatorSetHashCircuit struct {
	PubKeys [consts.MaxValidatorCount][consts.ED25519PublicKeySize]frontend.Variable `gnark:",secret"`
	Count   frontend.Variable                                                       `gnark:",secret"` // number of real (non-padding) entries

	Hash [32]frontend.Variable `gnark:",public"`
}

func (c *ValidatorSetHashCircuit) Define(api frontend.API) error {
	digest := computeValidatorSetHash(api, c.PubKeys, c.Count)
	for i := 0; i < 32; i++ {
		api.AssertIsEqual(digest[i], c.Hash[i])
	}
	return nil
}

// computeValidatorSetHash hashes a fixed-size, zero-padded validator set
// with BLAKE2-256, shared by ValidatorSetHashCircuit and
// SingleValidatorSignCircuit so both commit to the set identically (spec
// §4.C, §4.D).
func computeValidatorSetHash(api frontend.API, pubKeys [consts.MaxValidatorCount][consts.ED25519PublicKeySize]frontend.Variable, count frontend.Variable) [32]frontend.Variable {
	hs := blake2.NewHasher256(api)

	for i := 0; i < consts.MaxValidatorCount; i++ {
		// Entries at or beyond Count are zero-padding: selected to the
		// all-zero key so the hash is deterministic regardless of the
		// padding region's actual (unconstrained) contents, mirroring the
		// teacher's fixed-length SyncCommittee handling.
		active := api.Cmp(i, count) // -1 if i < count
		isReal := api.IsZero(api.Add(active, 1))
		var keyBytes [32]frontend.Variable
		for b := 0; b < 32; b++ {
			keyBytes[b] = api.Select(isReal, pubKeys[i][b], 0)
		}
		hs.Write(keyBytes[:])
	}

	return hs.Sum()
}

// PublicWitness builds the ValidatorSetHashTargets view of this circuit's
// assigned public inputs, for use as the expected value in
// ConnectTargetSets calls from composing circuits.
func (c *ValidatorSetHashCircuit) PublicWitness() ValidatorSetHashTargets {
	var out ValidatorSetHashTargets
	for i := 0; i < 32; i++ {
		out.Hash[i] = ByteTarget{Val: c.Hash[i]}
	}
	return out
}
