package circuit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// IndexedValidatorSignTargets carries a SingleValidatorSign proof's public
// inputs plus the signer index it was produced for, so a chain circuit can
// range-check indices are strictly increasing (spec §4.D,
// "ComposedValidatorSigns": prevents the same validator being counted
// twice toward the threshold, grounded on the original's
// ComposedValidatorSigns::prove index range check).
type IndexedValidatorSignTargets struct {
	Inner SingleValidatorSignTargets
	Index ByteTarget // fits MaxValidatorCount (128) in a single byte
}

func (t IndexedValidatorSignTargets) Flatten() []frontend.Variable {
	return append(t.Inner.Flatten(), t.Index.Val)
}

// ValidatorSignsChainTargets is the public-input schema of the composed
// chain: the validator-set commitment, the vote every link attests, the
// running count of distinct validators folded in so far, and the last
// (highest) signer index folded in — exposed publicly so the next link's
// recursive verification can read it straight off this proof's witness
// instead of trusting an unbound secret claim.
type ValidatorSignsChainTargets struct {
	ValidatorSetHash Bytes32Target
	Vote             GrandpaVoteTargets
	Count            frontend.Variable
	LastIndex        frontend.Variable
}

func (t ValidatorSignsChainTargets) Flatten() []frontend.Variable {
	out := append(t.ValidatorSetHash.Flatten(), t.Vote.Flatten()...)
	out = append(out, t.Count)
	return append(out, t.LastIndex)
}

// singleValidatorSignPublicOrder returns t's fields in the exact order
// SingleValidatorSignCircuit declares them public (Aux, BlockHash,
// Trailer, Hash) rather than SingleValidatorSignTargets.Flatten()'s order
// (ValidatorSetHash then Vote) — the order a recursively-verified
// SingleValidatorSignCircuit proof's Groth16 public witness vector
// actually comes in, since gnark orders public inputs by struct field
// declaration.
func singleValidatorSignPublicOrder(t SingleValidatorSignTargets) []frontend.Variable {
	out := append([]frontend.Variable{}, t.Vote.Flatten()...)
	return append(out, t.ValidatorSetHash.Flatten()...)
}

// ValidatorSignsChainGenesisCircuit starts a fresh chain: it recursively
// verifies a single SingleValidatorSign proof and sets Count = 1,
// LastIndex = that lone signer's index. It shares ValidatorSignsChainTargets
// as its exact public-input shape so a ValidatorSignsChainCircuit's
// PrevChain field can recursively verify either a genesis proof (for the
// second link) or another ValidatorSignsChainCircuit proof (for every
// link after that) without needing two different placeholder shapes —
// this sidesteps the self-referential base case a chain circuit that
// always recursed on its own shape would otherwise need (see DESIGN.md).
type ValidatorSignsChainGenesisCircuit struct {
	NextSign RecursiveProof

	Public ValidatorSignsChainTargets `gnark:",public"`

	// LastIndex is not bound to NextSign's public witness (the signer's
	// index is secret in SingleValidatorSignCircuit, never exposed), so
	// the prover asserts it directly; there is no earlier link to compare
	// it against yet.
	LastIndex frontend.Variable `gnark:",secret"`
}

func (c *ValidatorSignsChainGenesisCircuit) Define(api frontend.API) error {
	composer, err := NewComposer(api)
	if err != nil {
		return err
	}
	if err := composer.AssertProof(c.NextSign, singleValidatorSignPublicOrder(SingleValidatorSignTargets{
		ValidatorSetHash: c.Public.ValidatorSetHash,
		Vote:             c.Public.Vote,
	})); err != nil {
		return fmt.Errorf("validator-signs-chain-genesis: next sign: %w", err)
	}
	api.AssertIsEqual(c.Public.Count, 1)
	api.AssertIsEqual(c.Public.LastIndex, c.LastIndex)
	return nil
}

// ValidatorSignsChainCircuit recursively verifies one more
// SingleValidatorSign proof on top of an existing ValidatorSignsChain
// proof, asserting the new signer's index is strictly greater than the
// previous link's last index and that both links agree on the validator
// set and vote being attested. Composing ProcessedValidatorCount of these
// one at a time, rather than all in one monolithic circuit, keeps each
// individual proving job at a fixed, modest constraint count (spec §4.D),
// mirroring the original's ValidatorSignsChain.prove fold over a
// worker-pool-produced stream of SingleValidatorSign proofs.
//
// PrevChain recursively verifies either a ValidatorSignsChainGenesisCircuit
// proof (this is the second link) or another ValidatorSignsChainCircuit
// proof (every link after that) — both expose the identical
// ValidatorSignsChainTargets public shape, so one compiled placeholder
// serves both cases.
type ValidatorSignsChainCircuit struct {
	PrevChain RecursiveProof
	NextSign  RecursiveProof

	Public ValidatorSignsChainTargets `gnark:",public"`
}

func (c *ValidatorSignsChainCircuit) Define(api frontend.API) error {
	composer, err := NewComposer(api)
	if err != nil {
		return err
	}

	setAndVote := append(append([]frontend.Variable{}, c.Public.ValidatorSetHash.Flatten()...), c.Public.Vote.Flatten()...)

	// The previous link must attest the same validator set and vote this
	// link does; its Count and LastIndex are read back out (not trusted
	// as independently supplied secret witnesses) so the arithmetic below
	// is bound to what the previous proof actually verified.
	if err := composer.AssertProof(c.PrevChain, setAndVote); err != nil {
		return fmt.Errorf("validator-signs-chain: prev chain: %w", err)
	}
	if len(c.PrevChain.Witness.Public) < len(setAndVote)+2 {
		return fmt.Errorf("validator-signs-chain: prev chain exposes no count/last-index pair")
	}
	prevCount := composer.ExtractByte(&c.PrevChain.Witness.Public[len(setAndVote)])
	prevLastIndex := composer.ExtractByte(&c.PrevChain.Witness.Public[len(setAndVote)+1])

	// This link's own signer must belong to the same set and vote.
	if err := composer.AssertProof(c.NextSign, singleValidatorSignPublicOrder(SingleValidatorSignTargets{
		ValidatorSetHash: c.Public.ValidatorSetHash,
		Vote:             c.Public.Vote,
	})); err != nil {
		return fmt.Errorf("validator-signs-chain: next sign: %w", err)
	}

	// Strictly increasing: LastIndex > prevLastIndex.
	cmp := api.Cmp(c.Public.LastIndex, prevLastIndex)
	api.AssertIsEqual(cmp, 1)

	// Count folds in exactly one more validator per link.
	api.AssertIsEqual(c.Public.Count, api.Add(prevCount, 1))

	return nil
}
