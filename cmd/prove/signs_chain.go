package main

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	circuit "github.com/subeth-bridge/core/circuits"
	"github.com/subeth-bridge/core/consts"
)

// signChainLink is one proved circuit's groth16 artifacts, the shape a
// following link's PrevChain/NextSign (or
// ComposeValidatorSetRotationCircuit's RotationChain/SetHashProof) field
// assigns from via circuit.AssignRecursiveProof.
type signChainLink struct {
	Proof         groth16.Proof
	VK            groth16.VerifyingKey
	PublicWitness witness.Witness
}

// buildValidatorSignsChain folds signs (ascending by Index, the order
// ValidatorSignsChainCircuit requires) into one terminal
// ValidatorSignsChain proof attesting that len(signs) distinct validators
// from the set committing to setHash signed the vote (aux, blockHash,
// trailer): a ValidatorSignsChainGenesisCircuit proof for the first
// signer, then one ValidatorSignsChainCircuit link per remaining signer
// (circuits/validator_signs_chain.go, spec §4.D "ComposedValidatorSigns").
// It also returns the constraint system of whichever circuit produced the
// terminal proof (ValidatorSignsChainGenesisCircuit for a single signer,
// ValidatorSignsChainCircuit otherwise), for sizing
// ComposeValidatorSetRotationCircuit's RotationChain placeholder — sound
// because both circuits expose the identical ValidatorSignsChainTargets
// public shape and neither uses explicit API.Commit calls, so their
// Groth16 proof/verifying-key structure (what PlaceholderRecursiveProof
// actually sizes) agrees.
func buildValidatorSignsChain(
	setHash [32]byte,
	paddedX [consts.MaxValidatorCount][32]byte,
	paddedY [consts.MaxValidatorCount]*big.Int,
	count int,
	aux byte,
	blockHash [32]byte,
	trailer [voteTrailerSize]byte,
	signs []signerEntry,
) (signChainLink, constraint.ConstraintSystem, error) {
	if len(signs) == 0 {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: at least one signer required")
	}

	scs := ecc.BN254.ScalarField()
	vote := voteTarget(aux, blockHash, trailer)

	signCCS, err := frontend.Compile(scs, r1cs.NewBuilder, &circuit.SingleValidatorSignCircuit{})
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: compile single-sign: %w", err)
	}
	signPK, signVK, err := groth16.Setup(signCCS)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: setup single-sign: %w", err)
	}

	proveSign := func(e signerEntry) (signChainLink, error) {
		w, err := singleSignWitness(setHash, paddedX, paddedY, count, aux, blockHash, trailer, e)
		if err != nil {
			return signChainLink{}, err
		}
		full, err := frontend.NewWitness(w, scs)
		if err != nil {
			return signChainLink{}, fmt.Errorf("validator-signs-chain: build single-sign witness: %w", err)
		}
		proof, err := groth16.Prove(signCCS, signPK, full)
		if err != nil {
			return signChainLink{}, fmt.Errorf("validator-signs-chain: prove single-sign: %w", err)
		}
		pub, err := full.Public()
		if err != nil {
			return signChainLink{}, err
		}
		return signChainLink{Proof: proof, VK: signVK, PublicWitness: pub}, nil
	}

	genesisCircuit := &circuit.ValidatorSignsChainGenesisCircuit{
		NextSign: circuit.PlaceholderRecursiveProof(signCCS),
	}
	genesisCCS, err := frontend.Compile(scs, r1cs.NewBuilder, genesisCircuit)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: compile genesis: %w", err)
	}
	genesisPK, genesisVK, err := groth16.Setup(genesisCCS)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: setup genesis: %w", err)
	}

	// ValidatorSignsChainCircuit's PrevChain is sized off genesisCCS: both
	// ValidatorSignsChainGenesisCircuit and ValidatorSignsChainCircuit
	// expose the identical ValidatorSignsChainTargets public shape, so a
	// placeholder sized from either compiles a recursive verifier that
	// accepts proofs from both (circuits/validator_signs_chain.go's doc
	// comment on ValidatorSignsChainGenesisCircuit).
	chainCircuit := &circuit.ValidatorSignsChainCircuit{
		PrevChain: circuit.PlaceholderRecursiveProof(genesisCCS),
		NextSign:  circuit.PlaceholderRecursiveProof(signCCS),
	}
	chainCCS, err := frontend.Compile(scs, r1cs.NewBuilder, chainCircuit)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: compile chain: %w", err)
	}
	chainPK, chainVK, err := groth16.Setup(chainCCS)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: setup chain: %w", err)
	}

	link0, err := proveSign(signs[0])
	if err != nil {
		return signChainLink{}, nil, err
	}
	nextSign0, err := circuit.AssignRecursiveProof(link0.Proof, link0.VK, link0.PublicWitness)
	if err != nil {
		return signChainLink{}, nil, err
	}
	genesisWit := &circuit.ValidatorSignsChainGenesisCircuit{
		NextSign: nextSign0,
		Public: circuit.ValidatorSignsChainTargets{
			ValidatorSetHash: bytes32Target(setHash),
			Vote:             vote,
			Count:            1,
			LastIndex:        signs[0].Index,
		},
		LastIndex: signs[0].Index,
	}
	genesisFull, err := frontend.NewWitness(genesisWit, scs)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: build genesis witness: %w", err)
	}
	genesisProof, err := groth16.Prove(genesisCCS, genesisPK, genesisFull)
	if err != nil {
		return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: prove genesis: %w", err)
	}
	genesisPub, err := genesisFull.Public()
	if err != nil {
		return signChainLink{}, nil, err
	}

	prev := signChainLink{Proof: genesisProof, VK: genesisVK, PublicWitness: genesisPub}

	for i := 1; i < len(signs); i++ {
		link, err := proveSign(signs[i])
		if err != nil {
			return signChainLink{}, nil, err
		}
		nextSign, err := circuit.AssignRecursiveProof(link.Proof, link.VK, link.PublicWitness)
		if err != nil {
			return signChainLink{}, nil, err
		}
		prevChain, err := circuit.AssignRecursiveProof(prev.Proof, prev.VK, prev.PublicWitness)
		if err != nil {
			return signChainLink{}, nil, err
		}
		chainWit := &circuit.ValidatorSignsChainCircuit{
			PrevChain: prevChain,
			NextSign:  nextSign,
			Public: circuit.ValidatorSignsChainTargets{
				ValidatorSetHash: bytes32Target(setHash),
				Vote:             vote,
				Count:            i + 1,
				LastIndex:        signs[i].Index,
			},
		}
		chainFull, err := frontend.NewWitness(chainWit, scs)
		if err != nil {
			return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: build chain witness link %d: %w", i, err)
		}
		chainProof, err := groth16.Prove(chainCCS, chainPK, chainFull)
		if err != nil {
			return signChainLink{}, nil, fmt.Errorf("validator-signs-chain: prove chain link %d: %w", i, err)
		}
		chainPub, err := chainFull.Public()
		if err != nil {
			return signChainLink{}, nil, err
		}
		prev = signChainLink{Proof: chainProof, VK: chainVK, PublicWitness: chainPub}
	}

	terminalCCS := chainCCS
	if len(signs) == 1 {
		terminalCCS = genesisCCS
	}
	return prev, terminalCCS, nil
}

// singleSignWitness builds one SingleValidatorSignCircuit assignment: the
// full padded validator set (both X-byte and Y-coordinate halves) plus one
// signer's index and Ed25519-curve-point signature.
func singleSignWitness(
	setHash [32]byte,
	paddedX [consts.MaxValidatorCount][32]byte,
	paddedY [consts.MaxValidatorCount]*big.Int,
	count int,
	aux byte,
	blockHash [32]byte,
	trailer [voteTrailerSize]byte,
	e signerEntry,
) (*circuit.SingleValidatorSignCircuit, error) {
	sigRX, ok := new(big.Int).SetString(e.SigRX, 16)
	if !ok {
		return nil, fmt.Errorf("single-sign: invalid sig_rx %q", e.SigRX)
	}
	sigRY, ok := new(big.Int).SetString(e.SigRY, 16)
	if !ok {
		return nil, fmt.Errorf("single-sign: invalid sig_ry %q", e.SigRY)
	}
	sigS, ok := new(big.Int).SetString(e.SigS, 16)
	if !ok {
		return nil, fmt.Errorf("single-sign: invalid sig_s %q", e.SigS)
	}

	w := &circuit.SingleValidatorSignCircuit{
		Count: count,
		Index: e.Index,
		SigRX: sigRX,
		SigRY: sigRY,
		SigS:  sigS,
		Aux:   aux,
	}
	for i := range paddedX {
		for b := 0; b < 32; b++ {
			w.PubKeys[i][b] = paddedX[i][b]
		}
		w.PubKeyY[i] = paddedY[i]
	}
	for b := 0; b < 32; b++ {
		w.BlockHash[b] = blockHash[b]
		w.Hash[b] = setHash[b]
	}
	for i, v := range trailer {
		w.Trailer[i] = v
	}
	return w, nil
}
