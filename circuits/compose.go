package circuit

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_bn254"
	"github.com/consensys/gnark/std/math/emulated"
	stdgroth16 "github.com/consensys/gnark/std/recursion/groth16"
)

// Every circuit in this package compiles over BN254's scalar field (the
// default Groth16 curve), so recursive verification stays on that same
// curve rather than stepping over to a BW6-761/BLS12-377 pair: inner
// pairing arithmetic is emulated via gnark's std/algebra/emulated/sw_bn254
// gadget, the non-native BN254-over-BN254 pairing gnark ships for exactly
// this "verify a BN254 Groth16 proof inside a BN254 circuit" case.
type (
	innerScalarField = sw_bn254.ScalarField
	innerG1Affine    = sw_bn254.G1Affine
	innerG2Affine    = sw_bn254.G2Affine
	innerGTEl        = sw_bn254.GTEl
)

// RecursiveProof bundles everything one in-circuit AssertProof call needs:
// the inner circuit's verifying key, a proof, and the public witness that
// proof claims. All three are fixed-shape placeholders at outer-circuit
// compile time (PlaceholderRecursiveProof) and assigned fresh per instance
// at witness-building time — the Go/gnark shape of the original's
// ProofComposition<TS1, TS2> and BuilderExt::recursively_verify_constant_proof
// (spec §4.B).
type RecursiveProof struct {
	VK      stdgroth16.VerifyingKey[innerG1Affine, innerG2Affine, innerGTEl]
	Proof   stdgroth16.Proof[innerG1Affine, innerG2Affine]
	Witness stdgroth16.Witness[innerScalarField]
}

// PlaceholderRecursiveProof sizes a RecursiveProof's fields from a
// compiled inner circuit's constraint system, for use as the fixed-shape
// field type of an outer circuit struct before frontend.Compile runs.
func PlaceholderRecursiveProof(innerCCS constraint.ConstraintSystem) RecursiveProof {
	return RecursiveProof{
		VK:      stdgroth16.PlaceholderVerifyingKey[innerG1Affine, innerG2Affine, innerGTEl](innerCCS),
		Proof:   stdgroth16.PlaceholderProof[innerG1Affine, innerG2Affine](innerCCS),
		Witness: stdgroth16.PlaceholderWitness[innerScalarField](innerCCS),
	}
}

// AssignRecursiveProof converts a proved inner circuit's groth16.Proof,
// groth16.VerifyingKey and public witness.Witness into the
// stdgroth16-shaped values a RecursiveProof field is assigned from, for
// building an outer circuit's witness (the assignment-time counterpart
// of PlaceholderRecursiveProof, which only sizes the outer circuit's
// struct at compile time). Grounded on the pflow-xyz prover-wrapper
// pattern's WrapperWitness.ToAssignment (stdgroth16.ValueOfVerifyingKey/
// ValueOfProof/ValueOfWitness), generalized from their BW6-761 wrapper to
// this package's BN254-self-recursion case.
func AssignRecursiveProof(proof groth16.Proof, vk groth16.VerifyingKey, publicWitness witness.Witness) (RecursiveProof, error) {
	rvk, err := stdgroth16.ValueOfVerifyingKey[innerG1Affine, innerG2Affine, innerGTEl](vk)
	if err != nil {
		return RecursiveProof{}, fmt.Errorf("compose: assign vk: %w", err)
	}
	rproof, err := stdgroth16.ValueOfProof[innerG1Affine, innerG2Affine](proof)
	if err != nil {
		return RecursiveProof{}, fmt.Errorf("compose: assign proof: %w", err)
	}
	rwitness, err := stdgroth16.ValueOfWitness[innerScalarField](publicWitness)
	if err != nil {
		return RecursiveProof{}, fmt.Errorf("compose: assign witness: %w", err)
	}
	return RecursiveProof{VK: rvk, Proof: rproof, Witness: rwitness}, nil
}

// Composer recursively verifies inner Groth16 proofs inside an outer
// circuit via gnark's std/recursion/groth16 in-circuit verifier, and binds
// their public inputs to native frontend.Variable wires so the outer
// circuit can constrain them the same way it constrains every other
// TargetSet (spec §4.B).
type Composer struct {
	api      frontend.API
	verifier *stdgroth16.Verifier[innerScalarField, innerG1Affine, innerG2Affine, innerGTEl]
	field    *emulated.Field[innerScalarField]
}

// NewComposer builds a recursion verifier and its companion emulated-field
// helper, both scoped to api.
func NewComposer(api frontend.API) (*Composer, error) {
	v, err := stdgroth16.NewVerifier[innerScalarField, innerG1Affine, innerG2Affine, innerGTEl](api)
	if err != nil {
		return nil, fmt.Errorf("compose: new in-circuit verifier: %w", err)
	}
	f, err := emulated.NewField[innerScalarField](api)
	if err != nil {
		return nil, fmt.Errorf("compose: new emulated field: %w", err)
	}
	return &Composer{api: api, verifier: v, field: f}, nil
}

// AssertProof verifies rp's Groth16 proof against rp.VK and rp.Witness,
// then asserts each want[i] equals rp.Witness's i-th exposed public input.
// AssertProof alone only checks the pairing equation holds for *some*
// witness; the equality loop is what turns that into "this proof attests
// exactly these values" — the in-circuit twin of ConnectTargetSets, and
// what the original's recursively_verify_constant_proof does by
// registering the inner public inputs directly as outer targets.
// want need not cover every public input rp.Witness exposes: callers bind
// as many leading public inputs as their own circuit cares to constrain,
// leaving the rest (e.g. a folded count the caller doesn't need to
// re-check) unconstrained by this call.
func (c *Composer) AssertProof(rp RecursiveProof, want []frontend.Variable) error {
	if err := c.verifier.AssertProof(rp.VK, rp.Proof, rp.Witness); err != nil {
		return fmt.Errorf("compose: assert proof: %w", err)
	}
	if len(want) > len(rp.Witness.Public) {
		return fmt.Errorf("compose: public input shape mismatch: want %d, inner proof exposes %d", len(want), len(rp.Witness.Public))
	}
	for i, w := range want {
		c.field.AssertIsEqual(c.field.NewElement(w), &rp.Witness.Public[i])
	}
	return nil
}

// ExtractByte reads one of rp.Witness's public elements back out as a
// native, range-checked byte-sized frontend.Variable. Only sound for
// public inputs the inner circuit itself already constrains to fit in one
// byte (a folded validator count or signer index, both bounded by
// consts.MaxValidatorCount) — this does not safely re-derive an
// arbitrary-width value, since it only range-checks the bits it discards.
func (c *Composer) ExtractByte(el *emulated.Element[innerScalarField]) frontend.Variable {
	bits := c.field.ToBits(el)
	for i := 8; i < len(bits); i++ {
		c.api.AssertIsEqual(bits[i], 0)
	}
	return c.api.FromBinary(bits[:8]...)
}

// AssertCircuitDigests pins two circuit-shape identifiers together,
// refusing composition when an outer circuit was built expecting a
// different inner circuit than the one a caller is trying to recursively
// verify. Unlike AssertProof's in-circuit constraints, this runs at
// witness-assembly time (plain Go, no frontend.API): the inner circuit's
// shape is fixed by which constraint system PlaceholderRecursiveProof was
// built from, and this is the paranoia check that the VK a caller is
// about to embed in a witness actually came from that same compiled
// circuit, not a different one with a coincidentally matching public
// input count (spec §4.B; prevents type confusion the way plonky2's
// CommonCircuitData equality check does in the original).
func AssertCircuitDigests(got, want string) error {
	if got != want {
		return fmt.Errorf("compose: circuit digest mismatch: got %s want %s", got, want)
	}
	return nil
}

// ValidatorSetRotationTargets is the public-input schema for
// ComposeValidatorSetRotationCircuit: the previous era's validator-set
// commitment, the new era's, and the block-finality vote that attests the
// rotation (spec Open Question: "does current_validator_set need its own
// recursive composition, or is it re-derived per proof?" — resolved by
// recursive composition below: each era's proof only needs the
// immediately preceding era's public hash as a witness, not the full
// validator-set history, chaining one era's hash into the next's witness
// rather than re-deriving it from scratch).
type ValidatorSetRotationTargets struct {
	PrevSetHash Bytes32Target
	NextSetHash Bytes32Target
	Vote        GrandpaVoteTargets
}

func (t ValidatorSetRotationTargets) Flatten() []frontend.Variable {
	out := append(t.PrevSetHash.Flatten(), t.NextSetHash.Flatten()...)
	return append(out, t.Vote.Flatten()...)
}

// ComposeValidatorSetRotationCircuit recursively verifies (a) the
// terminal ValidatorSignsChain proof attesting that the previous era's
// validator set signed Vote, and (b) the new set's own ValidatorSetHash proof, and
// binds both to this circuit's own public PrevSetHash/NextSetHash/Vote.
// Composing this way means each era's rotation proof only ever carries
// the immediately preceding era's hash forward, never the full
// validator-set history.
type ComposeValidatorSetRotationCircuit struct {
	// RotationChain is a ValidatorSignsChainCircuit proof: its public
	// witness exposes (ValidatorSetHash, Vote, Count, LastIndex) in that
	// field order (circuits/validator_signs_chain.go).
	RotationChain RecursiveProof
	// SetHashProof is a ValidatorSetHashCircuit proof: its public witness
	// exposes Hash (circuits/validator_set_hash.go).
	SetHashProof RecursiveProof

	Public ValidatorSetRotationTargets `gnark:",public"`
}

func (c *ComposeValidatorSetRotationCircuit) Define(api frontend.API) error {
	composer, err := NewComposer(api)
	if err != nil {
		return err
	}

	// (a) the previous era's validator set (PrevSetHash) signed Vote.
	// Vote's contents are not checked against NextSetHash here. The chain's own
	// Count/LastIndex (the remaining public inputs the terminal
	// ValidatorSignsChainCircuit proof exposes) aren't constrained
	// further here — threshold sufficiency is the caller's concern when
	// selecting which terminal chain proof to compose against.
	chainWant := append(append([]frontend.Variable{}, c.Public.PrevSetHash.Flatten()...), c.Public.Vote.Flatten()...)
	if err := composer.AssertProof(c.RotationChain, chainWant); err != nil {
		return fmt.Errorf("compose: rotation chain: %w", err)
	}

	// (b) the new validator set's own hash proof.
	if err := composer.AssertProof(c.SetHashProof, c.Public.NextSetHash.Flatten()); err != nil {
		return fmt.Errorf("compose: set hash proof: %w", err)
	}

	return nil
}
