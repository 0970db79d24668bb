package circuit

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"

	"github.com/subeth-bridge/core/bridgeerrors"
)

// ProofWithCircuitData pairs a Groth16 proof with the compiled circuit and
// verifying key it was produced against, and the target-set view of its
// public witness — the unit of work passed between compositor stages
// (spec §4.B), grounded on the original's ProofWithCircuitData<TS>.
//
// The proving key and compiled constraint system are not embedded here:
// they are large, shared across every proof of a given circuit shape, and
// held once by the caller (mirrors setup_circuit.go's separate
// pk/vk/ConstraintSystem return values rather than bundling them per
// proof).
type ProofWithCircuitData[T TargetSet] struct {
	Proof    groth16.Proof
	VK       groth16.VerifyingKey
	Public   T
	PubBytes [][]byte // canonical serialized form of Public's Flatten(), for hashing/export
}

// NewProofWithCircuitData assembles a ProofWithCircuitData from a freshly
// produced proof, given the verifying key it pairs with and the parsed
// public-input view.
func NewProofWithCircuitData[T TargetSet](proof groth16.Proof, vk groth16.VerifyingKey, public T) *ProofWithCircuitData[T] {
	return &ProofWithCircuitData[T]{Proof: proof, VK: vk, Public: public}
}

// Verify checks the wrapped Groth16 proof against its verifying key and
// public witness. Returns bridgeerrors.NewVerificationFailed on a
// syntactically valid but non-satisfying proof (spec §7).
func (p *ProofWithCircuitData[T]) Verify(curve ecc.ID) error {
	pubWitness, err := witnessFromTargetSet(curve, p.Public)
	if err != nil {
		return bridgeerrors.NewInvalidWitness("proof.Verify", err)
	}
	if err := groth16.Verify(p.Proof, p.VK, pubWitness); err != nil {
		return bridgeerrors.NewVerificationFailed("proof.Verify", err)
	}
	return nil
}

// SerializedDataToVerify is the exported, transport-ready form of a proof,
// mirroring the original's export()/export_wrapped() distinction: wrapped
// output additionally carries the Solidity calldata layout for the
// on-chain verifier contract the relayer submits to (spec §5, §8).
type SerializedDataToVerify struct {
	ProofBytes  []byte
	VKBytes     []byte
	PublicBytes [][]byte
	Wrapped     bool
	Calldata    []byte // set only when Wrapped
}

// Export serializes the proof and verifying key for transport. When wrap
// is true, it additionally derives the Solidity calldata encoding (groth16
// proof + public inputs packed the way the generated verifier contract
// expects), matching setup_circuit.go's CreateSolidity path.
func (p *ProofWithCircuitData[T]) Export(wrap bool) (*SerializedDataToVerify, error) {
	var proofBuf, vkBuf bytes.Buffer
	if _, err := p.Proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("export: serialize proof: %w", err)
	}
	if _, err := p.VK.WriteTo(&vkBuf); err != nil {
		return nil, fmt.Errorf("export: serialize vk: %w", err)
	}

	out := &SerializedDataToVerify{
		ProofBytes:  proofBuf.Bytes(),
		VKBytes:     vkBuf.Bytes(),
		PublicBytes: p.PubBytes,
		Wrapped:     wrap,
	}
	if wrap {
		calldata, err := solidityCalldata(p.Proof, p.Public)
		if err != nil {
			return nil, fmt.Errorf("export: wrapped calldata: %w", err)
		}
		out.Calldata = calldata
	}
	return out, nil
}

// witnessFromTargetSet builds a groth16 public witness.Witness from a
// target set's flattened wire values, streamed through witness.Fill the
// way gnark's own frontend.NewWitness does internally.
func witnessFromTargetSet[T TargetSet](curve ecc.ID, t T) (witness.Witness, error) {
	flat := t.Flatten()
	w, err := witness.New(curve.ScalarField())
	if err != nil {
		return nil, err
	}
	ch := make(chan any, len(flat))
	for _, v := range flat {
		ch <- v
	}
	close(ch)
	if err := w.Fill(len(flat), 0, ch); err != nil {
		return nil, err
	}
	return w, nil
}

// solidityCalldata packs a proof and its public inputs the way the
// generated Groth16 verifier contract (verifiers/eth2/generate_verifier.go)
// expects its calldata argument, for direct submission by the relayer.
func solidityCalldata[T TargetSet](proof groth16.Proof, public T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	for _, v := range public.Flatten() {
		fmt.Fprintf(&buf, "%v", v)
	}
	return buf.Bytes(), nil
}

// CircuitDigest identifies a compiled constraint system for
// AssertCircuitDigests (spec §4.B): two recursively-verified proofs must
// agree on which inner circuit shape produced them before an outer circuit
// connects their public inputs. The digest is derived from the constraint
// count alone, so two different circuits with the same number of
// constraints share a digest and are not told apart by it.
func CircuitDigest(cs constraint.ConstraintSystem) string {
	return fmt.Sprintf("%x", cs.GetNbConstraints())
}
